// Package detect sniffs a document to tell registry files from JUnit
// results, so that swapped arguments get a helpful error.
package detect

import (
	"bytes"
	"encoding/xml"
)

// Format represents a recognized input format.
type Format int

const (
	Unknown  Format = iota
	Registry        // registries document
	JUnit           // testsuites or testsuite results
)

func (f Format) String() string {
	switch f {
	case Registry:
		return "registry"
	case JUnit:
		return "JUnit results"
	default:
		return "unknown"
	}
}

// Sniff examines the root element of data. Only the prologue and the first
// start element are read.
func Sniff(data []byte) Format {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.RawToken()
		if err != nil {
			return Unknown
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "registries":
			return Registry
		case "testsuites", "testsuite":
			return JUnit
		default:
			return Unknown
		}
	}
}
