package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/dkoosis/bugreg/pkg/registry"
)

type encoder struct {
	enc *xml.Encoder
	err error
}

func qname(local string) xml.Name { return xml.Name{Local: Prefix + ":" + local} }

func (e *encoder) start(local string, attrs ...xml.Attr) {
	if e.err != nil {
		return
	}
	e.err = e.enc.EncodeToken(xml.StartElement{Name: qname(local), Attr: attrs})
}

func (e *encoder) end(local string) {
	if e.err != nil {
		return
	}
	e.err = e.enc.EncodeToken(xml.EndElement{Name: qname(local)})
}

func (e *encoder) leaf(local, text string, attrs ...xml.Attr) {
	e.start(local, attrs...)
	if e.err == nil && text != "" {
		e.err = e.enc.EncodeToken(xml.CharData(text))
	}
	e.end(local)
}

func xattr(key, value string) xml.Attr { return xml.Attr{Name: xml.Name{Local: key}, Value: value} }

// Encode writes doc with registries sorted by name, cases sorted by
// (suite, case) and triage entries in their stable order.
func Encode(w io.Writer, doc *registry.Document) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	x := xml.NewEncoder(w)
	x.Indent("", "  ")
	e := &encoder{enc: x}

	e.start("registries", xattr("xmlns:"+Prefix, Namespace))
	for _, reg := range doc.Sorted() {
		e.encodeRegistry(reg)
	}
	e.end("registries")
	if e.err == nil {
		e.err = x.Flush()
	}
	if e.err == nil {
		_, e.err = io.WriteString(w, "\n")
	}
	if e.err != nil {
		return fmt.Errorf("encode registry: %w", e.err)
	}
	return nil
}

// EncodeBytes returns the encoded form of doc.
func EncodeBytes(doc *registry.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *encoder) encodeRegistry(reg *registry.Registry) {
	e.start("registry", xattr("name", reg.Name))

	e.start("meta")
	if !reg.Date.IsZero() {
		e.leaf("date", reg.Date.String())
	}
	for _, mv := range reg.ModuleVersions() {
		attrs := []xml.Attr{xattr("name", mv.Module), xattr("type", mv.Kind)}
		if mv.Repo != "" {
			attrs = append(attrs, xattr("repo", mv.Repo))
		}
		e.leaf("moduleversion", mv.Version, attrs...)
	}
	e.end("meta")

	suite := ""
	open := false
	for _, t := range reg.Tests() {
		if !open || t.ID.Suite != suite {
			if open {
				e.end("testsuite")
			}
			suite, open = t.ID.Suite, true
			e.start("testsuite", xattr("name", suite))
		}
		e.encodeCase(t)
	}
	if open {
		e.end("testsuite")
	}
	e.end("registry")
}

func (e *encoder) encodeCase(t *registry.Expectation) {
	e.start("testcase", xattr("name", t.ID.Case), xattr("success", registry.FormatStatus(t.Passes)))
	for _, b := range t.Bugs() {
		e.leaf("bug", b.URL, xattr("type", string(b.Kind)))
	}
	for _, f := range t.Fixes() {
		attrs := []xml.Attr{xattr("type", string(f.Kind))}
		for _, k := range f.AttrKeys() {
			attrs = append(attrs, xattr(k, f.Attrs[k]))
		}
		e.leaf("fix", f.Text, attrs...)
	}
	for _, n := range t.Notes() {
		e.leaf("testinfo", n.Text, xattr("type", string(n.Kind)))
	}
	e.end("testcase")
}
