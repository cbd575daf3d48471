package main

import (
	"fmt"
	"os"

	"github.com/corvid-labs/stanza/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "stanza: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
