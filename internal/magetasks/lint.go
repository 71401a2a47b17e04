package magetasks

import (
	"errors"
	"fmt"

	"github.com/magefile/mage/sh"
)

// LintAll runs go vet, a gofmt check and, when installed, staticcheck.
func LintAll() error {
	var errs []error
	if err := LintFormat(); err != nil {
		errs = append(errs, err)
	}
	if err := LintVet(); err != nil {
		errs = append(errs, err)
	}
	if err := LintStaticcheck(); err != nil && !IsCommandNotFound(err) {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	PrintSuccess("All linters passed")
	return nil
}

// LintFormat fails when any file needs gofmt.
func LintFormat() error {
	PrintH2Header("Go Format")
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		PrintError("Files need gofmt:\n" + out)
		return fmt.Errorf("gofmt: unformatted files")
	}
	return nil
}

// LintVet runs go vet.
func LintVet() error {
	return step("Go Vet", "go vet clean", "go", "vet", "./...")
}

// LintStaticcheck runs staticcheck when it is installed.
func LintStaticcheck() error {
	if err := step("Staticcheck", "staticcheck clean", "staticcheck", "./..."); err != nil {
		if IsCommandNotFound(err) {
			PrintWarning("Staticcheck not found (install: go install honnef.co/go/tools/cmd/staticcheck@latest)")
			return err
		}
		return fmt.Errorf("staticcheck failed: %w", err)
	}
	return nil
}
