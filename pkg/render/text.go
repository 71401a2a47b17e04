package render

import (
	"strings"

	"github.com/dkoosis/bugreg/pkg/table"
)

// Text renders blocks as plain aligned columns with no escape codes. The
// row code column keeps the output grep-able.
type Text struct{}

// NewText creates a plain text renderer.
func NewText() *Text {
	return &Text{}
}

// Render formats all blocks as plain text.
func (x *Text) Render(blocks []table.Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		switch v := b.(type) {
		case *table.Table:
			x.renderTable(&sb, v)
		case *table.Summary:
			sb.WriteString(v.Label + ": " + summaryText(v) + "\n")
		case *table.Detail:
			for _, line := range detailLines(v) {
				sb.WriteString(line + "\n")
			}
		}
	}
	return sb.String()
}

func (x *Text) renderTable(sb *strings.Builder, t *table.Table) {
	if t.Section != "" {
		sb.WriteString(sectionLine(t.Section) + "\n")
	}
	widths := columnWidths(t)
	sb.WriteString(formatLine(t.Headers, widths) + "\n")
	sb.WriteString(formatLine(rules(t.Headers), widths) + "\n")
	for _, r := range t.Rows {
		sb.WriteString(formatLine(r.Cells, widths) + "\n")
	}
}
