// Package junit parses JUnit-style test result files into live results.
//
// Only one input shape is understood:
//
//	testsuites / testsuite[name] / testcase[name] / failure[message]*
//
// A test case with no failure children passed; one with any failure children
// failed. Status is derived, never stored.
package junit

import "github.com/dkoosis/bugreg/pkg/registry"

// Result is the outcome of one test case in one run. Results are ephemeral:
// they are compared against a registry, never merged into one.
type Result struct {
	Suite    string
	Case     string
	Failures []string // failure messages in document order
}

// ID returns the registry identity of the result.
func (r Result) ID() registry.TestID {
	return registry.TestID{Suite: r.Suite, Case: r.Case}
}

// Passed reports whether the run recorded no failures.
func (r Result) Passed() bool { return len(r.Failures) == 0 }

// Status returns "success" or "failure".
func (r Result) Status() string {
	if r.Passed() {
		return "success"
	}
	return "failure"
}

// CompareResults orders by (suite, case).
func CompareResults(a, b Result) int {
	return registry.CompareIDs(a.ID(), b.ID())
}
