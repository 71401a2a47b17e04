package magetasks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
)

// smokeRegistry is a one-test registry for exercising the built binary.
const smokeRegistry = `<xit:registries xmlns:xit="http://www.x.org/xorg-integration-testing">
  <xit:registry name="smoke">
    <xit:testsuite name="Smoke">
      <xit:testcase name="Runs" success="true"/>
    </xit:testsuite>
  </xit:registry>
</xit:registries>
`

// Smoke runs the built binary against a scratch registry: version must
// report the binary name and list must show the registry's test.
func Smoke() error {
	PrintH2Header("Smoke")

	out, err := sh.Output(BinPath, "version")
	if err != nil {
		PrintError("version failed")
		return err
	}
	if err := checkOutput("version", out, "bugreg version "); err != nil {
		PrintError(err.Error())
		return err
	}

	dir, err := os.MkdirTemp("", "bugreg-smoke-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir) //nolint:errcheck // scratch dir

	reg := filepath.Join(dir, "smoke.xml")
	if err := os.WriteFile(reg, []byte(smokeRegistry), 0o600); err != nil {
		return err
	}
	out, err = sh.Output(BinPath, "--output-format", "text", "-f", reg, "list")
	if err != nil {
		PrintError("list failed")
		return err
	}
	if err := checkOutput("list", out, "Smoke"); err != nil {
		PrintError(err.Error())
		return err
	}
	PrintSuccess("Binary answers version and list")
	return nil
}

func checkOutput(cmd, out, want string) error {
	if !strings.Contains(out, want) {
		return fmt.Errorf("%s: output lacks %q", cmd, want)
	}
	return nil
}
