// bugreg keeps a registry of expected test outcomes and checks JUnit results
// against it.
//
// Usage:
//
//	bugreg -f registry.xml verify results.xml
//	bugreg -f registry.xml list
//	bugreg -f registry.xml edit Suite Case add-bug https://bugs.example.org/123
//	bugreg create results.xml > registry.xml
//
// The registry defaults to stdin for reading and stdout for writing.
package main

import (
	"os"

	"github.com/dkoosis/bugreg/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
