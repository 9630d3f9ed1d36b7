// Package cli implements the irfold command line.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"irfold/internal/config"
	"irfold/internal/logging"
	"irfold/internal/runutil"
	"irfold/internal/version"
)

type app struct {
	opts   options
	stdout io.Writer
	stderr io.Writer
	cfg    config.Config
}

// NewRootCmd builds the command tree writing to stdout and stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:   "irfold",
		Short: "RNA secondary structure prediction from inverted repeats",
		Long: "irfold predicts an RNA secondary structure by choosing a compatible set of\n" +
			"inverted repeats with a pseudo-boolean optimiser, correcting the additive\n" +
			"energy model for interacting motif tuples.",
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.opts.load(cmd.Flags())
			if err != nil {
				return err
			}
			lvl, _ := logging.ParseLevel(c.Log.Level)
			logging.Init(lvl, c.Log.Format, a.stderr)
			for _, w := range runutil.ValidateFinder(c.Finder.Kind, c.Finder.Path, c.Finder.Mismatches) {
				Warnf(a.stderr, a.opts.quiet, "%s", w)
			}
			a.cfg = c
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	a.opts.register(root.PersistentFlags())

	root.AddCommand(a.foldCmd())
	root.AddCommand(a.batchCmd())
	root.AddCommand(a.findCmd())
	root.AddCommand(a.evalCmd())
	return root
}

// Run executes argv and returns the process exit code.
func Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(argv)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "irfold:", err)
	}
	return ExitCode(err)
}
