// Package table defines the data shapes bugreg prints.
// Blocks are pure data; renderers decide presentation.
package table

// Kind identifies the kind of block.
type Kind string

const (
	KindTable   Kind = "table"
	KindSummary Kind = "summary"
	KindDetail  Kind = "detail"
)

// Block is the interface all printable blocks implement.
type Block interface {
	Kind() Kind
}

// Tone tags a row or item for coloring.
type Tone string

const (
	ToneDefault Tone = "default"
	ToneGood    Tone = "good"    // improvement
	ToneBad     Tone = "bad"     // regression, mismatch, expected failure
	ToneUnknown Tone = "unknown" // one side has no record
)

// Table is a titled grid of cells.
type Table struct {
	Section string   `json:"section,omitempty"`
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Row is one table line. Details are extra lines shown under the row by
// renderers that support them.
type Row struct {
	Cells   []string `json:"cells"`
	Tone    Tone     `json:"tone"`
	Details []string `json:"details,omitempty"`
}

func (t *Table) Kind() Kind { return KindTable }

// Summary is a line of labelled counts.
type Summary struct {
	Label string        `json:"label"`
	Items []SummaryItem `json:"items"`
}

// SummaryItem is a single count in a summary.
type SummaryItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Tone  Tone   `json:"tone"`
}

func (s *Summary) Kind() Kind { return KindSummary }

// Detail is a titled list of named fields, each with zero or more values.
type Detail struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Field is one named group inside a Detail. Inline fields hold a single
// value printed on the name's line.
type Field struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
	Inline bool     `json:"inline,omitempty"`
}

func (d *Detail) Kind() Kind { return KindDetail }
