// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"irfold/internal/output"
	"irfold/pkg/api"
)

// WriteFunc renders a complete list of results.
type WriteFunc func(w io.Writer, list []api.FoldResultV1, verbose bool) error

var registry = map[string]WriteFunc{}

// Register installs fn for format (last wins).
func Register(format string, fn WriteFunc) { registry[format] = fn }

func init() {
	Register(output.FormatText, output.WriteText)
	Register(output.FormatJSON, func(w io.Writer, list []api.FoldResultV1, _ bool) error {
		return output.WriteJSON(w, list)
	})
	Register(output.FormatJSONL, func(w io.Writer, list []api.FoldResultV1, _ bool) error {
		in, done := StartJSONL(w, len(list))
		for _, r := range list {
			in <- r
		}
		close(in)
		return <-done
	})
	Register(output.FormatVienna, func(w io.Writer, list []api.FoldResultV1, _ bool) error {
		return output.WriteVienna(w, list)
	})
}

// Write dispatches to the writer registered for format. Broken pipes are
// not errors.
func Write(format string, w io.Writer, list []api.FoldResultV1, verbose bool) error {
	fn, ok := registry[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	if err := fn(w, list, verbose); err != nil && !IsBrokenPipe(err) {
		return err
	}
	return nil
}

// Formats lists the registered formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(registry))
	for f := range registry {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
