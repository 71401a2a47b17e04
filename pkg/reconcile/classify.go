// Package reconcile compares expected test outcomes against live results or
// against another registry, and merges registries without disturbing
// existing triage data.
//
// Classify is the single rule set shared by Verify and Compare:
//
//	expected  actual   code
//	present   same     ++ (expected pass) or -- (expected fail)
//	present   differs  XX, toned as improvement or regression
//	present   absent   ?? (test missing from the run)
//	absent    present  ?? (untracked test)
//
// All row output is ordered by (suite, case) regardless of input order.
package reconcile

import (
	"slices"

	"github.com/dkoosis/bugreg/pkg/registry"
)

// Code is the grep-able status match marker.
type Code string

const (
	CodePass      Code = "++" // expected pass, passed
	CodeKnownFail Code = "--" // expected failure, failed
	CodeMismatch  Code = "XX" // outcome differs from expectation
	CodeUnknown   Code = "??" // one side has no record
)

// Tone is the severity tag a presentation layer maps to a color.
type Tone int

const (
	ToneDefault Tone = iota
	ToneImprovement
	ToneRegression
	ToneUnknown
)

func (t Tone) String() string {
	switch t {
	case ToneImprovement:
		return "improvement"
	case ToneRegression:
		return "regression"
	case ToneUnknown:
		return "unknown"
	default:
		return "default"
	}
}

// Presence says which sides of a comparison held a record. It separates
// the two CodeUnknown cases.
type Presence int

const (
	PresenceNone Presence = iota
	PresenceBoth
	PresenceExpectedOnly // recorded but absent from the run: possible regression
	PresenceActualOnly   // in the run but never triaged
)

func (p Presence) String() string {
	switch p {
	case PresenceBoth:
		return "both"
	case PresenceExpectedOnly:
		return "missing"
	case PresenceActualOnly:
		return "untracked"
	default:
		return "none"
	}
}

// Verdict is the outcome of Classify.
type Verdict struct {
	Code     Code
	Tone     Tone
	Presence Presence
}

// Classify applies the status-match table. A nil pointer means that side has
// no record. Passing two nils yields CodeUnknown with PresenceNone.
func Classify(expected, actual *bool) Verdict {
	switch {
	case expected != nil && actual != nil:
		if *expected == *actual {
			code := CodeKnownFail
			if *expected {
				code = CodePass
			}
			return Verdict{Code: code, Tone: ToneDefault, Presence: PresenceBoth}
		}
		tone := ToneRegression
		if *actual {
			tone = ToneImprovement
		}
		return Verdict{Code: CodeMismatch, Tone: tone, Presence: PresenceBoth}
	case expected != nil:
		return Verdict{Code: CodeUnknown, Tone: ToneUnknown, Presence: PresenceExpectedOnly}
	case actual != nil:
		return Verdict{Code: CodeUnknown, Tone: ToneUnknown, Presence: PresenceActualOnly}
	default:
		return Verdict{Code: CodeUnknown, Tone: ToneUnknown, Presence: PresenceNone}
	}
}

// Row is one classified test.
type Row struct {
	ID registry.TestID
	Verdict
	Expected string // "true", "false" or "" when absent
	Actual   string // "true", "false" or "" when absent
	Failures []string
}

func newRow(id registry.TestID, expected, actual *bool) Row {
	return Row{
		ID:       id,
		Verdict:  Classify(expected, actual),
		Expected: statusText(expected),
		Actual:   statusText(actual),
	}
}

func statusText(b *bool) string {
	if b == nil {
		return ""
	}
	return registry.FormatStatus(*b)
}

func sortRows(rows []Row) {
	slices.SortStableFunc(rows, func(a, b Row) int { return registry.CompareIDs(a.ID, b.ID) })
}

// Summary counts rows per outcome.
type Summary struct {
	Total     int
	Pass      int
	KnownFail int
	Improved  int
	Regressed int
	Missing   int
	Untracked int
}

// Mismatches returns the number of XX rows.
func (s Summary) Mismatches() int { return s.Improved + s.Regressed }

// Summarize tallies rows.
func Summarize(rows []Row) Summary {
	var s Summary
	for _, r := range rows {
		s.Total++
		switch {
		case r.Code == CodePass:
			s.Pass++
		case r.Code == CodeKnownFail:
			s.KnownFail++
		case r.Tone == ToneImprovement:
			s.Improved++
		case r.Tone == ToneRegression:
			s.Regressed++
		case r.Presence == PresenceExpectedOnly:
			s.Missing++
		case r.Presence == PresenceActualOnly:
			s.Untracked++
		}
	}
	return s
}
