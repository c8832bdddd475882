// Command molview draws molecules from SMILES, as a CLI or an HTTP service.
package main

import (
	"fmt"
	"os"

	"github.com/H1W0XXX/molview/internal/cli"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = commit
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
