package main

import (
	"fmt"
	"os"

	"github.com/opensocial-protocol/osp-cli/internal/cli"
	"github.com/opensocial-protocol/osp-cli/internal/cli/render"
	"github.com/opensocial-protocol/osp-cli/internal/config"
)

// Set by -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
		os.Exit(1)
	}
}
