package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set with -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wmon version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wmon %s (%s)\n", version, commit)
	},
}
