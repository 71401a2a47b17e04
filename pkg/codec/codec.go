// Package codec reads and writes registry documents.
//
// The document shape is
//
//	registries
//	  registry[name]
//	    meta
//	      date                           YYYY-MM-DD
//	      moduleversion[name,type,repo?] text = version
//	    testsuite[name]
//	      testcase[name,success]
//	        bug[type]                    text = url
//	        fix[type,...]                text = sha1 or NVR
//	        testinfo[type]               text = note
//
// in the Namespace namespace. Decoding is permissive about unknown elements
// and attributes; encoding is deterministic so that the output diffs cleanly
// and re-encoding a decoded document is a no-op.
package codec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dkoosis/bugreg/pkg/registry"
)

// Namespace identifies registry documents; existing registries depend on it.
const Namespace = "http://www.x.org/xorg-integration-testing"

// Prefix is the namespace prefix written on encode.
const Prefix = "xit"

const opDecode = "decode registry"

type xmlDocument struct {
	XMLName    xml.Name
	Registries []xmlRegistry `xml:"registry"`
}

type xmlRegistry struct {
	Attrs  []xml.Attr `xml:",any,attr"`
	Meta   []xmlMeta  `xml:"meta"`
	Suites []xmlSuite `xml:"testsuite"`
}

type xmlMeta struct {
	Dates   []xmlNode `xml:"date"`
	Modules []xmlNode `xml:"moduleversion"`
}

type xmlSuite struct {
	Attrs []xml.Attr `xml:",any,attr"`
	Cases []xmlCase  `xml:"testcase"`
}

type xmlCase struct {
	Attrs []xml.Attr `xml:",any,attr"`
	Bugs  []xmlNode  `xml:"bug"`
	Fixes []xmlNode  `xml:"fix"`
	Infos []xmlNode  `xml:"testinfo"`
}

type xmlNode struct {
	Attrs []xml.Attr `xml:",any,attr"`
	Text  string     `xml:",chardata"`
}

func attr(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == name && a.Name.Space != "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}

func attrOr(attrs []xml.Attr, name, fallback string) string {
	if v, ok := attr(attrs, name); ok {
		return v
	}
	return fallback
}

func requireAttr(attrs []xml.Attr, elem, name string) (string, error) {
	v, ok := attr(attrs, name)
	if !ok {
		return "", registry.ParseError(opDecode, elem, fmt.Errorf("missing %s attribute", name))
	}
	return v, nil
}

// Decoder reads registry documents. Entries that carry no text, such as an
// empty <bug/>, are skipped and reported through Warn when it is set.
type Decoder struct {
	Warn func(msg string, args ...any)
}

// Decode reads a registry document, dropping empty entries silently.
func Decode(r io.Reader) (*registry.Document, error) { return Decoder{}.Decode(r) }

// DecodeBytes reads a registry document from data.
func DecodeBytes(data []byte) (*registry.Document, error) { return Decoder{}.DecodeBytes(data) }

// DecodeBytes reads a registry document from data.
func (d Decoder) DecodeBytes(data []byte) (*registry.Document, error) {
	return d.Decode(bytes.NewReader(data))
}

func (d Decoder) warn(msg string, args ...any) {
	if d.Warn != nil {
		d.Warn(msg, args...)
	}
}

// Decode reads a registry document.
func (d Decoder) Decode(r io.Reader) (*registry.Document, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return nil, registry.ParseError(opDecode, "", err)
	}
	if doc.XMLName.Local != "registries" {
		return nil, registry.ParseError(opDecode, doc.XMLName.Local, errors.New("root element is not registries"))
	}
	if doc.XMLName.Space != "" && doc.XMLName.Space != Namespace {
		return nil, registry.ParseError(opDecode, doc.XMLName.Space, errors.New("unexpected namespace"))
	}

	out := registry.NewDocument()
	for _, xr := range doc.Registries {
		reg, err := d.decodeRegistry(xr)
		if err != nil {
			return nil, err
		}
		out.Add(reg)
	}
	return out, nil
}

func (d Decoder) decodeRegistry(xr xmlRegistry) (*registry.Registry, error) {
	name, err := requireAttr(xr.Attrs, "registry", "name")
	if err != nil {
		return nil, err
	}
	reg := registry.New(name)

	for _, meta := range xr.Meta {
		if len(meta.Dates) > 0 {
			date, err := registry.ParseDate(meta.Dates[0].Text)
			if err != nil {
				return nil, err
			}
			reg.Date = date
		}
		for _, m := range meta.Modules {
			module, err := requireAttr(m.Attrs, "moduleversion", "name")
			if err != nil {
				return nil, err
			}
			mv := registry.NewModuleVersion(module, strings.TrimSpace(m.Text), attrOr(m.Attrs, "type", registry.DefaultModuleKind))
			mv.Repo = attrOr(m.Attrs, "repo", "")
			reg.AddModuleVersion(mv)
		}
	}

	for _, xs := range xr.Suites {
		suite, err := requireAttr(xs.Attrs, "testsuite", "name")
		if err != nil {
			return nil, err
		}
		for _, xc := range xs.Cases {
			e, err := d.decodeCase(suite, xc)
			if err != nil {
				return nil, err
			}
			reg.Put(e)
		}
	}
	return reg, nil
}

func (d Decoder) decodeCase(suite string, xc xmlCase) (*registry.Expectation, error) {
	name, err := requireAttr(xc.Attrs, "testcase", "name")
	if err != nil {
		return nil, err
	}
	success, err := requireAttr(xc.Attrs, "testcase", "success")
	if err != nil {
		return nil, err
	}
	passes, err := registry.ParseStatus(success)
	if err != nil {
		return nil, err
	}
	e := registry.NewExpectation(registry.TestID{Suite: suite, Case: name}, passes)

	for _, b := range xc.Bugs {
		kind, err := registry.ParseBugKind(attrOr(b.Attrs, "type", string(registry.DefaultBugKind)))
		if err != nil {
			return nil, err
		}
		url := strings.TrimSpace(b.Text)
		if url == "" {
			d.warn("skipping empty bug", "test", e.ID.String())
			continue
		}
		if err := e.AddBug(registry.Bug{Kind: kind, URL: url}); err != nil {
			return nil, err
		}
	}
	for _, f := range xc.Fixes {
		kind, err := registry.ParseFixKind(attrOr(f.Attrs, "type", string(registry.DefaultFixKind)))
		if err != nil {
			return nil, err
		}
		fix := registry.Fix{Kind: kind, Text: strings.TrimSpace(f.Text)}
		if fix.Text == "" {
			d.warn("skipping empty fix", "test", e.ID.String(), "type", string(kind))
			continue
		}
		for _, a := range f.Attrs {
			if a.Name.Local == "type" || a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
				continue
			}
			if fix.Attrs == nil {
				fix.Attrs = make(map[string]string)
			}
			fix.Attrs[a.Name.Local] = a.Value
		}
		if err := e.AddFix(fix); err != nil {
			return nil, err
		}
	}
	for _, n := range xc.Infos {
		kind, err := registry.ParseNoteKind(attrOr(n.Attrs, "type", string(registry.DefaultNoteKind)))
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(n.Text)
		if text == "" {
			d.warn("skipping empty testinfo", "test", e.ID.String())
			continue
		}
		if err := e.AddNote(registry.Note{Kind: kind, Text: text}); err != nil {
			return nil, err
		}
	}
	return e, nil
}
