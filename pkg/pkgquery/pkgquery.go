// Package pkgquery asks the operating system which version of a package is
// installed.
package pkgquery

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/dkoosis/bugreg/pkg/registry"
)

// KindRPM is the module version kind answered by RPM.
const KindRPM = "rpm"

// DefaultModules are the packages stamped into a new registry when no list
// is configured.
var DefaultModules = []string{
	"xorg-x11-server-Xorg",
	"xorg-x11-drv-evdev",
	"xorg-x11-drv-synaptics",
	"xorg-x11-drv-wacom",
	"xorg-x11-drv-mouse",
	"xorg-x11-drv-keyboard",
}

// RPM queries the RPM database with `rpm -q`.
type RPM struct {
	Binary  string        // defaults to "rpm"
	Timeout time.Duration // per query; defaults to 10s
	Logger  *slog.Logger
}

// Kind returns KindRPM.
func (q *RPM) Kind() string { return KindRPM }

// InstalledVersion returns the first line `rpm -q module` prints, which is
// the full NVR of the installed package.
func (q *RPM) InstalledVersion(ctx context.Context, module string) (string, error) {
	const op = "rpm query"
	bin := q.Binary
	if bin == "" {
		bin = "rpm"
	}
	timeout := q.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, "-q", module)
	if q.Logger != nil {
		q.Logger.Debug("executing package query", "cmd", cmd.String())
	}
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(firstLine(out))
			if msg == "" {
				msg = strings.TrimSpace(string(exitErr.Stderr))
			}
			return "", registry.ExternalToolError(op, module, fmt.Errorf("exit %d: %s", exitErr.ExitCode(), msg))
		}
		return "", registry.ExternalToolError(op, module, err)
	}
	version := strings.TrimSpace(firstLine(out))
	if version == "" {
		return "", registry.ExternalToolError(op, module, errors.New("empty output"))
	}
	return version, nil
}

func firstLine(b []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(b))
	if sc.Scan() {
		return sc.Text()
	}
	return ""
}

// Static answers from a fixed table. Modules not in the table fail like a
// missing package would.
type Static struct {
	QueryKind string
	Versions  map[string]string
}

// Kind returns the configured kind, defaulting to KindRPM.
func (s *Static) Kind() string {
	if s.QueryKind == "" {
		return KindRPM
	}
	return s.QueryKind
}

// InstalledVersion looks module up in the table.
func (s *Static) InstalledVersion(_ context.Context, module string) (string, error) {
	if v, ok := s.Versions[module]; ok {
		return v, nil
	}
	return "", registry.ExternalToolError("static query", module, errors.New("package is not installed"))
}
