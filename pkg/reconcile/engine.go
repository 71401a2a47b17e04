package reconcile

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/dkoosis/bugreg/pkg/junit"
	"github.com/dkoosis/bugreg/pkg/registry"
)

// Verify classifies every live result against reg. Results with no registry
// entry still produce a row so new tests surface for triage. Failure
// messages are carried through for detail views.
func Verify(reg *registry.Registry, results []junit.Result) []Row {
	rows := make([]Row, 0, len(results))
	for _, res := range results {
		actual := res.Passed()
		var expected *bool
		if e, ok := reg.Get(res.ID()); ok {
			expected = &e.Passes
		}
		row := newRow(res.ID(), expected, &actual)
		row.Failures = slices.Clone(res.Failures)
		rows = append(rows, row)
	}
	sortRows(rows)
	return rows
}

// ModuleDiff pairs the recorded versions of one module across two
// registries. A side with no record holds "".
type ModuleDiff struct {
	Module   string
	Left     string
	Right    string
	Mismatch bool
	Drift    string // "newer" or "older" when both sides are semantic versions
}

// Comparison is the result of comparing two registries.
type Comparison struct {
	Left    string
	Right   string
	Modules []ModuleDiff
	Rows    []Row
}

// Compare classifies b's outcomes against a's. Rows cover the union of both
// identity sets.
func Compare(a, b *registry.Registry) Comparison {
	c := Comparison{Left: a.Name, Right: b.Name, Modules: diffModules(a, b)}

	ids := a.IDs()
	for _, id := range b.IDs() {
		if !a.Has(id) {
			ids = append(ids, id)
		}
	}
	c.Rows = make([]Row, 0, len(ids))
	for _, id := range ids {
		c.Rows = append(c.Rows, newRow(id, outcome(a, id), outcome(b, id)))
	}
	sortRows(c.Rows)
	return c
}

func outcome(reg *registry.Registry, id registry.TestID) *bool {
	if e, ok := reg.Get(id); ok {
		passes := e.Passes
		return &passes
	}
	return nil
}

func diffModules(a, b *registry.Registry) []ModuleDiff {
	names := append(a.Modules(), b.Modules()...)
	slices.Sort(names)
	names = slices.Compact(names)

	diffs := make([]ModuleDiff, 0, len(names))
	for _, name := range names {
		lv, rv := a.VersionsOf(name), b.VersionsOf(name)
		left, right := strings.Join(lv, ","), strings.Join(rv, ",")
		// A module recorded with an empty version still differs from one
		// that is not recorded at all.
		mismatch := left != right || (len(lv) == 0) != (len(rv) == 0)
		d := ModuleDiff{Module: name, Left: left, Right: right, Mismatch: mismatch}
		if d.Mismatch {
			d.Drift = drift(left, right)
		}
		diffs = append(diffs, d)
	}
	return diffs
}

func drift(left, right string) string {
	l, err := semver.ParseTolerant(left)
	if err != nil {
		return ""
	}
	r, err := semver.ParseTolerant(right)
	if err != nil {
		return ""
	}
	switch r.Compare(l) {
	case 1:
		return "newer"
	case -1:
		return "older"
	}
	return ""
}

// DocumentComparison holds per-name comparisons plus names found on only
// one side.
type DocumentComparison struct {
	Pairs          []Comparison
	UnmatchedLeft  []string
	UnmatchedRight []string
}

// CompareDocuments compares the registry called name in both documents, or
// every name present in both when name is empty. A named registry missing
// from either side is a NotFound error.
func CompareDocuments(a, b *registry.Document, name string) (*DocumentComparison, error) {
	const op = "compare registries"
	if name != "" {
		left, err := a.Find(name)
		if err != nil {
			return nil, registry.NotFoundError(op, name)
		}
		right, err := b.Find(name)
		if err != nil {
			return nil, registry.NotFoundError(op, name)
		}
		return &DocumentComparison{Pairs: []Comparison{Compare(left, right)}}, nil
	}

	out := &DocumentComparison{}
	for _, left := range a.Sorted() {
		right, err := b.Find(left.Name)
		if err != nil {
			out.UnmatchedLeft = appendUnique(out.UnmatchedLeft, left.Name)
			continue
		}
		out.Pairs = append(out.Pairs, Compare(left, right))
	}
	for _, right := range b.Sorted() {
		if !a.Has(right.Name) {
			out.UnmatchedRight = appendUnique(out.UnmatchedRight, right.Name)
		}
	}
	return out, nil
}

// appendUnique skips duplicates of the last element; inputs arrive sorted.
func appendUnique(names []string, name string) []string {
	if n := len(names); n > 0 && names[n-1] == name {
		return names
	}
	return append(names, name)
}

// Merge copies into dst every test of src that dst does not already hold.
// Existing entries in dst are never modified. It returns the number of
// tests adopted.
func Merge(dst, src *registry.Registry) int {
	added := 0
	for _, e := range src.Tests() {
		if dst.Has(e.ID) {
			continue
		}
		dst.Put(e.Clone())
		added++
	}
	return added
}

// MergeReport describes what MergeDocuments did.
type MergeReport struct {
	Merged    map[string]int // name -> tests adopted
	Adopted   []string       // registries copied whole from the source
	Untouched []string       // registries only in the destination
}

// MergeDocuments merges src into dst in place. With a name only that
// registry is considered; it is NotFound when neither document holds it.
// Without a name, shared registries are merged, source-only registries are
// adopted and destination-only registries are left alone.
func MergeDocuments(dst, src *registry.Document, name string) (*MergeReport, error) {
	report := &MergeReport{Merged: make(map[string]int)}
	if name != "" {
		right, rerr := src.Find(name)
		left, lerr := dst.Find(name)
		switch {
		case lerr != nil && rerr != nil:
			return nil, registry.NotFoundError("merge registries", name)
		case rerr != nil:
			report.Untouched = append(report.Untouched, name)
		case lerr != nil:
			dst.Add(right.Clone())
			report.Adopted = append(report.Adopted, name)
		default:
			report.Merged[name] = Merge(left, right)
		}
		return report, nil
	}

	for _, left := range dst.Sorted() {
		if !src.Has(left.Name) {
			report.Untouched = appendUnique(report.Untouched, left.Name)
		}
	}
	for _, right := range src.Sorted() {
		left, err := dst.Find(right.Name)
		if err != nil {
			dst.Add(right.Clone())
			report.Adopted = append(report.Adopted, right.Name)
			continue
		}
		report.Merged[right.Name] += Merge(left, right)
	}
	return report, nil
}

// Create builds a registry whose expectations are the observed outcomes.
func Create(name string, date registry.Date, results []junit.Result) *registry.Registry {
	reg := registry.New(name)
	reg.Date = date
	for _, res := range results {
		reg.Put(registry.NewExpectation(res.ID(), res.Passed()))
	}
	return reg
}

// VersionQuerier reports the installed version of a module. Kind is the
// module version kind the querier answers for, e.g. "rpm".
type VersionQuerier interface {
	Kind() string
	InstalledVersion(ctx context.Context, module string) (string, error)
}

// ModuleCheck is the advisory result of comparing a recorded module version
// with the installed one. Err is set when the query failed.
type ModuleCheck struct {
	Module    string
	Recorded  string
	Installed string
	Err       error
}

// Match reports whether the installed version equals the recorded one.
func (m ModuleCheck) Match() bool { return m.Err == nil && m.Recorded == m.Installed }

// CheckInstalled queries q for every module version of q's kind recorded in
// reg. Query failures are reported per module and never stop the check.
func CheckInstalled(ctx context.Context, reg *registry.Registry, q VersionQuerier) []ModuleCheck {
	var checks []ModuleCheck
	for _, mv := range reg.ModuleVersions() {
		if mv.Kind != q.Kind() {
			continue
		}
		check := ModuleCheck{Module: mv.Module, Recorded: mv.Version}
		installed, err := q.InstalledVersion(ctx, mv.Module)
		if err != nil {
			check.Err = wrapTool(mv.Module, err)
		} else {
			check.Installed = installed
		}
		checks = append(checks, check)
	}
	return checks
}

// StampInstalled records the installed version of each module in reg,
// replacing earlier entries of the same kind. Modules that cannot be
// queried are skipped and their errors returned.
func StampInstalled(ctx context.Context, reg *registry.Registry, q VersionQuerier, modules []string) []error {
	var errs []error
	for _, module := range modules {
		version, err := q.InstalledVersion(ctx, module)
		if err != nil {
			errs = append(errs, wrapTool(module, err))
			continue
		}
		reg.SetModuleVersion(registry.NewModuleVersion(module, version, q.Kind()))
	}
	return errs
}

func wrapTool(module string, err error) error {
	if errors.Is(err, registry.ErrExternalTool) {
		return err
	}
	return registry.ExternalToolError("query installed version", module, err)
}
