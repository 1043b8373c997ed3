package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"faraday/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Long())
	},
}
