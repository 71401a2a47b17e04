package registry

import (
	"fmt"
	"slices"
)

// Expectation is the recorded outcome of one test case together with its
// triage metadata. Bugs, fixes and notes are kept deduplicated and sorted.
type Expectation struct {
	ID     TestID
	Passes bool

	bugs  []Bug
	fixes []Fix
	notes []Note
}

// NewExpectation returns an expectation with no triage metadata.
func NewExpectation(id TestID, passes bool) *Expectation {
	return &Expectation{ID: id, Passes: passes}
}

// SetStatus parses and applies a stored status token.
func (e *Expectation) SetStatus(token string) error {
	passes, err := ParseStatus(token)
	if err != nil {
		return err
	}
	e.Passes = passes
	return nil
}

// AddBug records b unless an equal bug is already present.
func (e *Expectation) AddBug(b Bug) error {
	if _, err := ParseBugKind(string(b.Kind)); err != nil {
		return err
	}
	if b.URL == "" {
		return ConversionError("add bug", e.ID.String(), fmt.Errorf("empty url"))
	}
	e.bugs = insertSorted(e.bugs, b, CompareBugs)
	return nil
}

// RemoveBug drops b if present and reports whether anything was removed.
func (e *Expectation) RemoveBug(b Bug) bool {
	var removed bool
	e.bugs, removed = removeSorted(e.bugs, b, CompareBugs)
	return removed
}

// Bugs returns the bugs in (kind, url) order.
func (e *Expectation) Bugs() []Bug { return slices.Clone(e.bugs) }

// AddFix records f unless an equal fix is already present.
func (e *Expectation) AddFix(f Fix) error {
	if _, err := ParseFixKind(string(f.Kind)); err != nil {
		return err
	}
	if f.Text == "" {
		return ConversionError("add fix", e.ID.String(), fmt.Errorf("empty %s reference", f.Kind))
	}
	e.fixes = insertSorted(e.fixes, f.clone(), CompareFixes)
	return nil
}

// RemoveFix drops f if present and reports whether anything was removed.
func (e *Expectation) RemoveFix(f Fix) bool {
	var removed bool
	e.fixes, removed = removeSorted(e.fixes, f, CompareFixes)
	return removed
}

// Fixes returns the fixes in (kind, text) order.
func (e *Expectation) Fixes() []Fix {
	out := make([]Fix, len(e.fixes))
	for i, f := range e.fixes {
		out[i] = f.clone()
	}
	return out
}

// AddNote records n unless an equal note is already present.
func (e *Expectation) AddNote(n Note) error {
	if _, err := ParseNoteKind(string(n.Kind)); err != nil {
		return err
	}
	if n.Text == "" {
		return ConversionError("add note", e.ID.String(), fmt.Errorf("empty note"))
	}
	e.notes = insertSorted(e.notes, n, CompareNotes)
	return nil
}

// RemoveNote drops n if present and reports whether anything was removed.
func (e *Expectation) RemoveNote(n Note) bool {
	var removed bool
	e.notes, removed = removeSorted(e.notes, n, CompareNotes)
	return removed
}

// Notes returns the notes in (kind, text) order.
func (e *Expectation) Notes() []Note { return slices.Clone(e.notes) }

// Clone returns a deep copy.
func (e *Expectation) Clone() *Expectation {
	c := &Expectation{
		ID:     e.ID,
		Passes: e.Passes,
		bugs:   slices.Clone(e.bugs),
		notes:  slices.Clone(e.notes),
	}
	if e.fixes != nil {
		c.fixes = e.Fixes()
	}
	return c
}

// Equal compares identity, status and the deduplicated triage sets. Fix
// attributes are compared as well so that a copy is detectably exact.
func (e *Expectation) Equal(o *Expectation) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.ID != o.ID || e.Passes != o.Passes {
		return false
	}
	if !slices.Equal(e.bugs, o.bugs) || !slices.Equal(e.notes, o.notes) {
		return false
	}
	return slices.EqualFunc(e.fixes, o.fixes, func(a, b Fix) bool {
		if CompareFixes(a, b) != 0 || len(a.Attrs) != len(b.Attrs) {
			return false
		}
		for k, v := range a.Attrs {
			if bv, ok := b.Attrs[k]; !ok || bv != v {
				return false
			}
		}
		return true
	})
}

func insertSorted[T any](s []T, v T, cmp func(a, b T) int) []T {
	i, found := slices.BinarySearchFunc(s, v, cmp)
	if found {
		return s
	}
	return slices.Insert(s, i, v)
}

func removeSorted[T any](s []T, v T, cmp func(a, b T) int) ([]T, bool) {
	i, found := slices.BinarySearchFunc(s, v, cmp)
	if !found {
		return s, false
	}
	return slices.Delete(s, i, i+1), true
}
