package fasta

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// DefaultWidth is the line width used by WriteFile.
const DefaultWidth = 60

// Write emits one record, wrapping the sequence at width (0 = single line).
func Write(w io.Writer, r Record, width int) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, ">%s\n", r.ID); err != nil {
		return err
	}
	seq := r.Seq
	if width <= 0 {
		width = max(len(seq), 1)
	}
	for len(seq) > 0 {
		n := min(width, len(seq))
		if _, err := bw.WriteString(seq[:n]); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		seq = seq[n:]
	}
	return bw.Flush()
}

// WriteFile writes a single-record FASTA file at path.
func WriteFile(path string, r Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, r, DefaultWidth); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
