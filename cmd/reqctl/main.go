// Command reqctl manages a directory of markdown requirements linked
// into a parent/child dependency graph.
package main

import (
	"fmt"
	"os"

	"github.com/reqgraph/reqctl/internal/cli"
)

// version and gitCommit are overridden at build time via:
//
//	go build -ldflags "-X main.version=... -X main.gitCommit=..."
var (
	version   = "dev"
	gitCommit = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = gitCommit

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "reqctl:", err)
		os.Exit(1)
	}
}
