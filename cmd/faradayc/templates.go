package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"faraday/internal/render"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Export or validate render template sets",
	Long:  "Write the default Lua template set to TOML, or validate a custom one.",
	RunE:  templatesExecution,
}

func init() {
	templatesCmd.Flags().String("write", "", "write the default template set to the given TOML path")
	templatesCmd.Flags().String("load", "", "validate a template TOML file")
}

func templatesExecution(cmd *cobra.Command, _ []string) error {
	writePath, err := cmd.Flags().GetString("write")
	if err != nil {
		return err
	}
	loadPath, err := cmd.Flags().GetString("load")
	if err != nil {
		return err
	}

	switch {
	case writePath != "":
		if err := render.Save(writePath, render.Lua()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), writePath)
	case loadPath != "":
		if _, err := render.Load(loadPath); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
	default:
		return fmt.Errorf("one of --write or --load is required")
	}
	return nil
}
