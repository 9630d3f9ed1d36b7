package output

import (
	"fmt"
	"io"

	"irfold/pkg/api"
)

// WriteVienna prints records the way ViennaRNA tools do:
//
//	>id
//	SEQUENCE
//	STRUCTURE ( -1.20)
//
// Failed records are skipped.
func WriteVienna(w io.Writer, list []api.FoldResultV1) error {
	for _, r := range list {
		if r.Error != "" {
			continue
		}
		if _, err := fmt.Fprintf(w, ">%s\n%s\n%s (%6.2f)\n", r.ID, r.Sequence, r.DotBracket, r.Objective); err != nil {
			return err
		}
	}
	return nil
}
