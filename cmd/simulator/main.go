package main

import (
	"fmt"
	"os"

	"github.com/ayo6706/transfer-simulator/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "simulator: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
