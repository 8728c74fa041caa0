package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
)

// exitCode is the forwarded executable's exit code. Execute applies it after
// cobra unwinds, so command teardown and defers still run.
var exitCode int

var runCmd = &cobra.Command{
	Use:                "run <executable> [args...]",
	Short:              "Forward arguments to a co-located analysis executable",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("run: missing executable name")
		}
		exitCode = runExecutable(args[0], args[1:])
		return nil
	},
}

// runExecutable forwards args unchanged to an executable living next to
// this binary and propagates its exit code. Failures print to stderr.
func runExecutable(name string, args []string) int {
	self, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error locating self: %v\n", err)
		return 1
	}
	exe := filepath.Join(filepath.Dir(self), name)

	c := exec.Command(exe, args...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running %s: %v\n", exe, err)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		return 1
	}
	return 0
}

func init() {
	rootCmd.AddCommand(runCmd)
}
