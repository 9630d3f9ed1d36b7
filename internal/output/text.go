// internal/output/text.go
package output

import (
	"fmt"
	"io"
	"strings"

	"irfold/pkg/api"
)

// WriteText prints a header and one tab-separated row per record. Failed
// records show the error in the status column. With verbose, each row is
// followed by its candidate motifs.
func WriteText(w io.Writer, list []api.FoldResultV1, verbose bool) error {
	if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
		return err
	}
	for _, r := range list {
		status := r.Status
		if r.Error != "" {
			status = "error: " + oneLine(r.Error)
		}
		if _, err := fmt.Fprintf(w, "%s\t%d\t%s\t%.2f\t%s\n", r.ID, r.Length, status, r.Objective, r.DotBracket); err != nil {
			return err
		}
		if !verbose {
			continue
		}
		for i, m := range r.Candidates {
			mark := " "
			switch {
			case m.Selected:
				mark = "*"
			case !m.Valid:
				mark = "x"
			}
			if _, err := fmt.Fprintf(w, "#%s %d\t((%d,%d),(%d,%d))\n", mark, i, m.LeftStart, m.LeftEnd, m.RightStart, m.RightEnd); err != nil {
				return err
			}
		}
		if s := r.Stats; s != nil {
			if _, err := fmt.Fprintf(w, "# vars=%d exclusions=%d corrections=%d oracle_calls=%d solve_ms=%.3f\n",
				s.Variables, s.Exclusions, s.Corrections, s.OracleCalls, s.SolveMS); err != nil {
				return err
			}
		}
	}
	return nil
}

func oneLine(s string) string { return strings.Join(strings.Fields(s), " ") }
