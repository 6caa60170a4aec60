package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/trebuchet-org/raffle-cli/internal/cli"
	"github.com/trebuchet-org/raffle-cli/internal/cli/render"
	"github.com/trebuchet-org/raffle-cli/internal/config"
	"github.com/trebuchet-org/raffle-cli/internal/domain"
)

// Set by -ldflags at release time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		var alert *domain.AlertError
		if errors.As(err, &alert) {
			fmt.Fprintln(os.Stderr, render.FormatError(err))
			fmt.Fprintf(os.Stderr, "Error: %v\n", alert.Err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
