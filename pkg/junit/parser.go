package junit

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dkoosis/bugreg/pkg/registry"
)

const opParse = "parse results"

type xmlSuites struct {
	XMLName xml.Name
	Name    *string    `xml:"name,attr"`
	Suites  []xmlSuite `xml:"testsuite"`
	Cases   []xmlCase  `xml:"testcase"`
}

type xmlSuite struct {
	Name  *string   `xml:"name,attr"`
	Cases []xmlCase `xml:"testcase"`
}

type xmlCase struct {
	Name     *string      `xml:"name,attr"`
	Failures []xmlFailure `xml:"failure"`
}

type xmlFailure struct {
	Message *string `xml:"message,attr"`
	Text    string  `xml:",chardata"`
}

// Parse reads a results document. The root is normally testsuites; a bare
// testsuite root is accepted as a single-suite document.
func Parse(r io.Reader) ([]Result, error) {
	var doc xmlSuites
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return nil, registry.ParseError(opParse, "", err)
	}

	var suites []xmlSuite
	switch doc.XMLName.Local {
	case "testsuites":
		suites = doc.Suites
	case "testsuite":
		suites = []xmlSuite{{Name: doc.Name, Cases: doc.Cases}}
	default:
		return nil, registry.ParseError(opParse, doc.XMLName.Local, errors.New("root element is not testsuites"))
	}

	var results []Result
	for _, s := range suites {
		if s.Name == nil {
			return nil, registry.ParseError(opParse, "testsuite", errors.New("missing name attribute"))
		}
		for _, c := range s.Cases {
			if c.Name == nil {
				return nil, registry.ParseError(opParse, "testcase", fmt.Errorf("missing name attribute in suite %s", *s.Name))
			}
			res := Result{Suite: *s.Name, Case: *c.Name}
			for _, f := range c.Failures {
				msg := strings.TrimSpace(f.Text)
				if f.Message != nil {
					msg = *f.Message
				}
				res.Failures = append(res.Failures, msg)
			}
			results = append(results, res)
		}
	}
	return results, nil
}

// ParseBytes is a convenience for parsing from a byte slice.
func ParseBytes(data []byte) ([]Result, error) {
	return Parse(bytes.NewReader(data))
}
