package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Type-check without emitting output",
	Args:  cobra.MaximumNArgs(1),
	RunE:  checkExecution,
}

func checkExecution(cmd *cobra.Command, args []string) error {
	if _, err := compileTarget(args, true, ""); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}
