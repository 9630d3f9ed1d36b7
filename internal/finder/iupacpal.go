// internal/finder/iupacpal.go
// Adapter for the IUPACpal inverted-repeat finder. The sequence goes in as
// <workDir>/<name>.fasta; results come back in a text report whose
// "Palindromes:" section lists one repeat per three lines:
//
//	1    ACG    3
//	     |||
//	12   CGU    10
//
// Coordinates are 1-based; the third line gives the right strand's end
// first.
package finder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"irfold/core/engine"
	"irfold/core/motif"
	"irfold/internal/dirlock"
	"irfold/internal/fasta"
	"irfold/internal/toolexec"
)

// DefaultIUPACpal is the executable looked up on PATH when none is configured.
const DefaultIUPACpal = "IUPACpal"

// IUPACpal runs the external finder. Calls on the same working directory
// are serialised by dirlock.
type IUPACpal struct {
	Path    string
	SeqName string
	Logger  *slog.Logger
}

func (p IUPACpal) exe() string {
	if p.Path == "" {
		return DefaultIUPACpal
	}
	return p.Path
}

func (p IUPACpal) seqName() string {
	if p.SeqName == "" {
		return "seq"
	}
	return p.SeqName
}

func (p IUPACpal) Find(ctx context.Context, q engine.Query, workDir string) ([]motif.Motif, error) {
	q = q.WithDefaults()
	var found []motif.Motif
	err := dirlock.With(workDir, func() error {
		name := p.seqName()
		seqFile := filepath.Join(workDir, name+".fasta")
		outFile := filepath.Join(workDir, name+"_found_irs.txt")
		if err := fasta.WriteFile(seqFile, fasta.Record{ID: name, Seq: q.Sequence}); err != nil {
			return fmt.Errorf("write %s: %w", seqFile, err)
		}
		args := []string{
			"-f", seqFile,
			"-s", name,
			"-m", strconv.Itoa(q.MinLen),
			"-M", strconv.Itoa(q.MaxLen),
			"-g", strconv.Itoa(q.MaxGap),
			"-x", strconv.Itoa(q.Mismatches),
			"-o", outFile,
		}
		if _, err := toolexec.Run(ctx, p.exe(), args, nil); err != nil {
			return err
		}
		f, err := os.Open(outFile)
		if err != nil {
			return &engine.ToolError{Tool: p.exe(), Args: args, Err: fmt.Errorf("missing report: %w", err)}
		}
		defer f.Close()
		found, err = ParsePalindromes(f)
		if err != nil {
			return &engine.ToolError{Tool: p.exe(), Args: args, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger(p.Logger).Debug("iupacpal", "found", len(found))
	return found, nil
}

var number = regexp.MustCompile(`-?\d+`)

// ParsePalindromes reads an IUPACpal report and returns 0-based motifs.
func ParsePalindromes(r io.Reader) ([]motif.Motif, error) {
	sc := bufio.NewScanner(r)
	var lines []string
	seen := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !seen {
			seen = line == "Palindromes:"
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !seen {
		return nil, errors.New(`report has no "Palindromes:" section`)
	}
	if len(lines)%3 != 0 {
		return nil, fmt.Errorf("palindrome section has %d lines, want a multiple of 3", len(lines))
	}
	out := make([]motif.Motif, 0, len(lines)/3)
	for i := 0; i < len(lines); i += 3 {
		nums := number.FindAllString(strings.Join(lines[i:i+3], " "), -1)
		if len(nums) < 4 {
			return nil, fmt.Errorf("record %d: want 4 coordinates, got %q", i/3+1, nums)
		}
		v := make([]int, 4)
		for k := range v {
			n, err := strconv.Atoi(nums[k])
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i/3+1, err)
			}
			v[k] = n
		}
		out = append(out, motif.New(v[0]-1, v[1]-1, v[3]-1, v[2]-1))
	}
	return out, nil
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
