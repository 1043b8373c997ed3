package main

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [file]",
	Short: "Compile and execute with the configured interpreter",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExecution,
}

func init() {
	runCmd.Flags().String("interpreter", "lua", "interpreter used to execute the output")
	runCmd.Flags().Bool("bench", false, "print elapsed compile and run time")
}

func runExecution(cmd *cobra.Command, args []string) error {
	interpreter, err := cmd.Flags().GetString("interpreter")
	if err != nil {
		return err
	}
	bench, err := cmd.Flags().GetBool("bench")
	if err != nil {
		return err
	}

	compileStart := time.Now()
	res, err := compileTarget(args, false, interpreter)
	if err != nil {
		return err
	}
	compileElapsed := time.Since(compileStart)

	runStart := time.Now()
	proc := exec.Command(interpreter, res.OutputPath)
	proc.Stdin = os.Stdin
	proc.Stdout = os.Stdout
	proc.Stderr = os.Stderr
	if err := proc.Run(); err != nil {
		return err
	}

	if bench {
		fmt.Fprintf(os.Stderr, "compile %s, run %s\n", compileElapsed, time.Since(runStart))
	}
	return nil
}
