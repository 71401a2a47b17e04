package table

import (
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/bugreg/pkg/reconcile"
	"github.com/dkoosis/bugreg/pkg/registry"
)

// ToneOf maps an engine tone to a table tone.
func ToneOf(t reconcile.Tone) Tone {
	switch t {
	case reconcile.ToneImprovement:
		return ToneGood
	case reconcile.ToneRegression:
		return ToneBad
	case reconcile.ToneUnknown:
		return ToneUnknown
	default:
		return ToneDefault
	}
}

// Verify builds the verify table: Code, TestSuite, TestCase, Result, Expected.
// Failure messages become row details.
func Verify(section string, rows []reconcile.Row) *Table {
	t := &Table{Section: section, Headers: []string{"Code", "TestSuite", "TestCase", "Result", "Expected"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, Row{
			Cells:   []string{string(r.Code), r.ID.Suite, r.ID.Case, r.Actual, r.Expected},
			Tone:    ToneOf(r.Tone),
			Details: r.Failures,
		})
	}
	return t
}

// Comparison builds the module diff table (when any modules are recorded)
// and the test table for one registry pair. Columns are labelled with the
// sources the registries came from.
func Comparison(c reconcile.Comparison, left, right string) []Block {
	var blocks []Block
	if len(c.Modules) > 0 {
		mods := &Table{Section: c.Left, Headers: []string{"Module name", left, right, "Drift"}}
		for _, m := range c.Modules {
			tone := ToneDefault
			if m.Mismatch {
				tone = ToneBad
			}
			mods.Rows = append(mods.Rows, Row{Cells: []string{m.Module, m.Left, m.Right, m.Drift}, Tone: tone})
		}
		blocks = append(blocks, mods)
	}

	tests := &Table{Headers: []string{"Code", "TestSuite", "TestCase", right, left}}
	if len(c.Modules) == 0 {
		tests.Section = c.Left
	}
	for _, r := range c.Rows {
		tests.Rows = append(tests.Rows, Row{
			Cells: []string{string(r.Code), r.ID.Suite, r.ID.Case, r.Actual, r.Expected},
			Tone:  ToneOf(r.Tone),
		})
	}
	return append(blocks, tests)
}

// List builds the expectation listing of reg. Expected failures are toned bad.
func List(reg *registry.Registry) *Table {
	t := &Table{Section: reg.Name, Headers: []string{"TestSuite", "TestCase", "Success"}}
	for _, e := range reg.Tests() {
		tone := ToneDefault
		if !e.Passes {
			tone = ToneBad
		}
		t.Rows = append(t.Rows, Row{Cells: []string{e.ID.Suite, e.ID.Case, registry.FormatStatus(e.Passes)}, Tone: tone})
	}
	return t
}

// Installed builds the advisory installed-package table for reg.
func Installed(regName string, checks []reconcile.ModuleCheck) *Table {
	t := &Table{Headers: []string{"Module name", regName, "System-installed"}}
	for _, c := range checks {
		installed, tone := c.Installed, ToneDefault
		switch {
		case c.Err != nil:
			installed, tone = "unavailable", ToneUnknown
		case !c.Match():
			tone = ToneBad
		}
		t.Rows = append(t.Rows, Row{Cells: []string{c.Module, c.Recorded, installed}, Tone: tone})
	}
	return t
}

// Info describes one expectation with its triage entries.
func Info(e *registry.Expectation) *Detail {
	expected := "Failure"
	if e.Passes {
		expected = "Success"
	}
	d := &Detail{
		Title:  e.ID.Suite + " " + e.ID.Case,
		Fields: []Field{{Name: "Expected Result", Values: []string{expected}, Inline: true}},
	}

	var notes, bugs, fixes []string
	for _, n := range e.Notes() {
		notes = append(notes, labelled(string(n.Kind), n.Text))
	}
	for _, b := range e.Bugs() {
		bugs = append(bugs, labelled(string(b.Kind), b.URL))
	}
	for _, f := range e.Fixes() {
		text := f.Text
		if repo := f.Repo(); repo != "" {
			text += " (" + repo + ")"
		}
		fixes = append(fixes, labelled(string(f.Kind), text))
	}
	d.Fields = append(d.Fields,
		Field{Name: "Extra Info", Values: notes},
		Field{Name: "Known Bugs", Values: bugs},
		Field{Name: "Known Fixes", Values: fixes},
	)
	return d
}

var titler = cases.Title(language.English)

// labelled prefixes text with its title-cased kind, e.g. "Bugzilla: <url>".
func labelled(kind, text string) string { return titler.String(kind) + ": " + text }

// SummaryOf renders engine counts. Zero counts other than the total are
// left out.
func SummaryOf(label string, s reconcile.Summary) *Summary {
	out := &Summary{Label: label}
	add := func(name string, n int, tone Tone) {
		if n > 0 || name == "total" {
			out.Items = append(out.Items, SummaryItem{Label: name, Value: strconv.Itoa(n), Tone: tone})
		}
	}
	add("total", s.Total, ToneDefault)
	add("pass", s.Pass, ToneDefault)
	add("known failures", s.KnownFail, ToneDefault)
	add("improved", s.Improved, ToneGood)
	add("regressed", s.Regressed, ToneBad)
	add("missing", s.Missing, ToneUnknown)
	add("untracked", s.Untracked, ToneUnknown)
	return out
}
