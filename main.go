package main

import (
	"fmt"
	"os"

	"github.com/ayo6706/transfer-simulator/internal/cli"
)

// Same command as cmd/simulator, so `go run .` works from the module root.
func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd.Name(), err)
		os.Exit(cli.GetExitCode(err))
	}
}
