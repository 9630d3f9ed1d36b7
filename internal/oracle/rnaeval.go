// Package oracle provides free-energy oracles backed by external tools and
// caching decorators for any energy.Oracle.
package oracle

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"irfold/core/energy"
	"irfold/core/engine"
	"irfold/internal/dirlock"
	"irfold/internal/toolexec"
)

// DefaultRNAeval is the executable looked up on PATH when none is configured.
const DefaultRNAeval = "RNAeval"

// RNAeval evaluates structures with ViennaRNA's RNAeval. The sequence and
// structure go in on stdin; the energy is the parenthesised value at the end
// of the structure line.
type RNAeval struct {
	Path string
	// Temperature in °C; zero keeps the tool default.
	Temperature float64
	Logger      *slog.Logger
}

var _ energy.Oracle = RNAeval{}

func (r RNAeval) exe() string {
	if r.Path == "" {
		return DefaultRNAeval
	}
	return r.Path
}

func (r RNAeval) args() []string {
	if r.Temperature == 0 {
		return nil
	}
	return []string{"-T", strconv.FormatFloat(r.Temperature, 'f', -1, 64)}
}

func (r RNAeval) Energy(ctx context.Context, dotBracket, sequence, workDir string) (float64, error) {
	if len(dotBracket) != len(sequence) {
		return 0, fmt.Errorf("structure length %d != sequence length %d: %w", len(dotBracket), len(sequence), energy.ErrLengthMismatch)
	}
	var out []byte
	run := func() error {
		var err error
		out, err = toolexec.Run(ctx, r.exe(), r.args(), strings.NewReader(sequence+"\n"+dotBracket+"\n"))
		return err
	}
	var err error
	if workDir == "" {
		err = run()
	} else {
		err = dirlock.With(workDir, run)
	}
	if err != nil {
		return 0, err
	}
	e, err := ParseEnergy(out)
	if err != nil {
		return 0, &engine.ToolError{Tool: r.exe(), Args: r.args(), Err: err}
	}
	if r.Logger != nil {
		r.Logger.Debug("rnaeval", "structure", dotBracket, "energy", e)
	}
	return e, nil
}

var trailingEnergy = regexp.MustCompile(`\(\s*([-+]?\d+(?:\.\d+)?)\s*\)\s*$`)

// ParseEnergy extracts the energy from RNAeval output: the last line that
// ends in a parenthesised number.
func ParseEnergy(out []byte) (float64, error) {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		m := trailingEnergy.FindSubmatch(bytes.TrimSpace(lines[i]))
		if m == nil {
			continue
		}
		return strconv.ParseFloat(string(m[1]), 64)
	}
	return 0, fmt.Errorf("no energy in output %q", out)
}
