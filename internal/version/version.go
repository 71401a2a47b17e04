// Package version holds build metadata set by the linker.
package version

import "fmt"

// These variables are populated by the Go linker (LDFLAGS) at build time.
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// String formats the build metadata for a --version style report.
func String(program string) string {
	return fmt.Sprintf("%s version %s\nCommit: %s\nBuilt: %s", program, Version, CommitHash, BuildDate)
}
