package registry

import (
	"maps"
	"slices"
)

// Registry is a named set of expectations keyed by TestID, stamped with a
// date and the module versions it was recorded against.
type Registry struct {
	Name string
	Date Date

	modules []ModuleVersion
	tests   map[TestID]*Expectation
}

// New returns an empty registry.
func New(name string) *Registry {
	return &Registry{Name: name, tests: make(map[TestID]*Expectation)}
}

// Put inserts e, replacing any expectation with the same ID.
func (r *Registry) Put(e *Expectation) {
	if r.tests == nil {
		r.tests = make(map[TestID]*Expectation)
	}
	r.tests[e.ID] = e
}

// Get returns the expectation for id, if present.
func (r *Registry) Get(id TestID) (*Expectation, bool) {
	e, ok := r.tests[id]
	return e, ok
}

// Lookup is Get with a KindNotFound error for absent IDs.
func (r *Registry) Lookup(id TestID) (*Expectation, error) {
	e, ok := r.tests[id]
	if !ok {
		return nil, NotFoundError("lookup test", id.String())
	}
	return e, nil
}

// Has reports whether id is present.
func (r *Registry) Has(id TestID) bool {
	_, ok := r.tests[id]
	return ok
}

// Len returns the number of test cases.
func (r *Registry) Len() int { return len(r.tests) }

// IDs returns every TestID in (suite, case) order.
func (r *Registry) IDs() []TestID {
	return slices.SortedFunc(maps.Keys(r.tests), CompareIDs)
}

// Tests returns every expectation in (suite, case) order.
func (r *Registry) Tests() []*Expectation {
	ids := r.IDs()
	out := make([]*Expectation, len(ids))
	for i, id := range ids {
		out[i] = r.tests[id]
	}
	return out
}

// Suites returns the distinct suite names, sorted.
func (r *Registry) Suites() []string {
	var suites []string
	for _, id := range r.IDs() {
		if n := len(suites); n == 0 || suites[n-1] != id.Suite {
			suites = append(suites, id.Suite)
		}
	}
	return suites
}

// ModuleVersions returns the module stamps in (module, kind, version) order.
func (r *Registry) ModuleVersions() []ModuleVersion { return slices.Clone(r.modules) }

// AddModuleVersion records mv unless an equal stamp exists.
func (r *Registry) AddModuleVersion(mv ModuleVersion) bool {
	if mv.Kind == "" {
		mv.Kind = DefaultModuleKind
	}
	i, found := slices.BinarySearchFunc(r.modules, mv, CompareModuleVersions)
	if found {
		return false
	}
	r.modules = slices.Insert(r.modules, i, mv)
	return true
}

// SetModuleVersion replaces every stamp for (mv.Module, mv.Kind) with mv.
func (r *Registry) SetModuleVersion(mv ModuleVersion) {
	if mv.Kind == "" {
		mv.Kind = DefaultModuleKind
	}
	r.RemoveModuleVersion(mv.Module, mv.Kind)
	r.AddModuleVersion(mv)
}

// RemoveModuleVersion drops stamps for module of the given kind; an empty
// kind matches any. It returns the number removed.
func (r *Registry) RemoveModuleVersion(module, kind string) int {
	before := len(r.modules)
	r.modules = slices.DeleteFunc(r.modules, func(m ModuleVersion) bool {
		return m.Module == module && (kind == "" || m.Kind == kind)
	})
	return before - len(r.modules)
}

// VersionsOf returns the recorded versions for module in stamp order.
func (r *Registry) VersionsOf(module string) []string {
	var out []string
	for _, m := range r.modules {
		if m.Module == module {
			out = append(out, m.Version)
		}
	}
	return out
}

// Modules returns the distinct module names, sorted.
func (r *Registry) Modules() []string {
	var names []string
	for _, m := range r.modules {
		if n := len(names); n == 0 || names[n-1] != m.Module {
			names = append(names, m.Module)
		}
	}
	return names
}

// Clone returns a deep copy.
func (r *Registry) Clone() *Registry {
	c := New(r.Name)
	c.Date = r.Date
	c.modules = slices.Clone(r.modules)
	for id, e := range r.tests {
		c.tests[id] = e.Clone()
	}
	return c
}

// Equal reports whether both registries hold the same name, date, module
// stamps and expectations.
func (r *Registry) Equal(o *Registry) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.Name != o.Name || r.Date != o.Date || !slices.Equal(r.modules, o.modules) {
		return false
	}
	if len(r.tests) != len(o.tests) {
		return false
	}
	for id, e := range r.tests {
		if !e.Equal(o.tests[id]) {
			return false
		}
	}
	return true
}
