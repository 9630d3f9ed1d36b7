package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find SEQUENCE",
		Short: "List the candidate inverted repeats the finder reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return failed(a.find(cmd, args[0]))
		},
	}
}

func (a *app) find(cmd *cobra.Command, seq string) error {
	ec, err := a.cfg.ToEngine()
	if err != nil {
		return err
	}
	st, err := newStack(a.cfg, nil)
	if err != nil {
		return err
	}
	defer st.Close()

	q := ec.Query
	q.Sequence = strings.ToUpper(strings.TrimSpace(seq))
	q = q.WithDefaults()
	dir, cleanup, err := a.scratch()
	if err != nil {
		return err
	}
	defer cleanup()

	found, err := st.finder.Find(cmd.Context(), q, dir)
	if err != nil {
		return err
	}
	for _, m := range found {
		note := ""
		if err := m.Validate(len(q.Sequence)); err != nil {
			note = "\tinvalid: " + err.Error()
		} else if m.Gap() < ec.Model.MinLoopSize {
			note = "\tloop too short"
		}
		if _, err := fmt.Fprintf(a.stdout, "%s\tstem=%d\tgap=%d%s\n", m, m.StemLen(), m.Gap(), note); err != nil {
			return err
		}
	}
	return nil
}
