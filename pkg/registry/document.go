package registry

import (
	"slices"
	"strings"
)

// Document is an ordered collection of registries as stored in one file.
// Names are expected to be unique but this is not enforced; lookups return
// the first match.
//
// Documents are not safe for concurrent use. A registry file is rewritten in
// full after every mutation, so callers must serialize edits to the same file.
type Document struct {
	registries []*Registry
}

// NewDocument returns a document holding regs in the given order.
func NewDocument(regs ...*Registry) *Document {
	return &Document{registries: slices.Clone(regs)}
}

// Len returns the number of registries.
func (d *Document) Len() int { return len(d.registries) }

// Registries returns the registries in document order.
func (d *Document) Registries() []*Registry { return slices.Clone(d.registries) }

// Sorted returns the registries ordered by name; equal names keep document
// order.
func (d *Document) Sorted() []*Registry {
	out := slices.Clone(d.registries)
	slices.SortStableFunc(out, func(a, b *Registry) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Names returns registry names in document order.
func (d *Document) Names() []string {
	names := make([]string, len(d.registries))
	for i, r := range d.registries {
		names[i] = r.Name
	}
	return names
}

// Add appends r.
func (d *Document) Add(r *Registry) { d.registries = append(d.registries, r) }

// Find returns the first registry named name.
func (d *Document) Find(name string) (*Registry, error) {
	for _, r := range d.registries {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, NotFoundError("find registry", name)
}

// Has reports whether a registry named name exists.
func (d *Document) Has(name string) bool {
	_, err := d.Find(name)
	return err == nil
}

// First returns the first registry in document order.
func (d *Document) First() (*Registry, error) {
	if len(d.registries) == 0 {
		return nil, NotFoundError("first registry", "")
	}
	return d.registries[0], nil
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	c := &Document{registries: make([]*Registry, len(d.registries))}
	for i, r := range d.registries {
		c.registries[i] = r.Clone()
	}
	return c
}

// Equal compares registries pairwise after ordering by name.
func (d *Document) Equal(o *Document) bool {
	a, b := d.Sorted(), o.Sorted()
	return slices.EqualFunc(a, b, func(x, y *Registry) bool { return x.Equal(y) })
}
