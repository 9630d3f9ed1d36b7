package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"irfold/core/energy"
	"irfold/internal/staging"
)

func (a *app) evalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval SEQUENCE STRUCTURE",
		Short: "Print the free energy of a dot-bracket structure",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return failed(a.eval(cmd, args[0], args[1]))
		},
	}
}

func (a *app) eval(cmd *cobra.Command, seq, db string) error {
	st, err := newStack(a.cfg, nil)
	if err != nil {
		return err
	}
	defer st.Close()
	dir, cleanup, err := a.scratch()
	if err != nil {
		return err
	}
	defer cleanup()

	e, err := st.oracle.Energy(cmd.Context(), db, strings.ToUpper(seq), dir)
	if err != nil {
		return err
	}
	if energy.IsInvalid(e) {
		Warnf(a.stderr, a.opts.quiet, "structure is not valid for this sequence")
	}
	_, err = fmt.Fprintf(a.stdout, "%.2f\n", e)
	return err
}

// scratch makes a staging dir under the configured work dir.
func (a *app) scratch() (string, func(), error) {
	d, err := staging.New(a.cfg.WorkDir, a.cfg.KeepWorkDirs)
	if err != nil {
		return "", nil, err
	}
	return d.Path, func() { _ = d.Close() }, nil
}
