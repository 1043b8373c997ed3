package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"faraday/internal/compiler"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file]",
	Short: "Compile a faraday project",
	Long:  "Compile the project entry (or the given file) into the build directory, using faraday.toml when present.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  buildExecution,
}

func init() {
	buildCmd.Flags().Bool("emit-symbols", false, "write a msgpack symbol manifest next to the output")
	buildCmd.Flags().String("interpreter", "lua", "interpreter used for expression macros")
}

func buildExecution(cmd *cobra.Command, args []string) error {
	emitSymbols, err := cmd.Flags().GetBool("emit-symbols")
	if err != nil {
		return err
	}
	interpreter, err := cmd.Flags().GetString("interpreter")
	if err != nil {
		return err
	}

	res, err := compileTarget(args, false, interpreter)
	if err != nil {
		return err
	}

	if emitSymbols {
		symPath := strings.TrimSuffix(res.OutputPath, compiler.TargetExt) + ".symbols"
		if err := compiler.WriteSymbols(symPath, res.Entry, res.Registers); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.OutputPath)
	return nil
}
