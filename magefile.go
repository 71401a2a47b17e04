//go:build mage

// Build tasks for bugreg. Run `mage -l` for the list.
package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"

	"github.com/dkoosis/bugreg/internal/magetasks"
)

// Default builds bin/bugreg.
var Default = Build

func init() {
	if err := magetasks.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "mage: %v\n", err)
		os.Exit(1)
	}
}

// Build compiles bin/bugreg with version metadata from git.
func Build() error {
	return magetasks.BuildAll()
}

// Clean removes bin/ and the coverage profile.
func Clean() error {
	return magetasks.Clean()
}

// Smoke builds the binary and runs version and list against a scratch
// registry.
func Smoke() error {
	mg.Deps(Build)
	return magetasks.Smoke()
}

// QA lints, tests, builds and smoke-tests the binary.
func QA() error {
	magetasks.PrintH1Header("bugreg QA")
	mg.SerialDeps(Lint.All, Test.All, Smoke)
	magetasks.PrintSuccess("QA complete")
	return nil
}

// Lint groups the static checks.
type Lint mg.Namespace

// All runs gofmt, vet and staticcheck; a missing staticcheck is a warning.
func (Lint) All() error { return magetasks.LintAll() }

// Format lists files gofmt would change.
func (Lint) Format() error { return magetasks.LintFormat() }

// Vet runs go vet ./...
func (Lint) Vet() error { return magetasks.LintVet() }

// Staticcheck runs staticcheck ./...
func (Lint) Staticcheck() error { return magetasks.LintStaticcheck() }

// Test groups the test runs.
type Test mg.Namespace

// All runs go test ./...
func (Test) All() error { return magetasks.TestAll() }

// Coverage writes coverage.out and prints per-function coverage.
func (Test) Coverage() error { return magetasks.TestCoverage() }

// Race runs the tests under the race detector.
func (Test) Race() error { return magetasks.TestRace() }
