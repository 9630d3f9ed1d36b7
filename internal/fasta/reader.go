// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one FASTA entry. Seq is upper-cased with whitespace removed.
type Record struct {
	ID  string
	Seq string
}

// Each opens path ("-" for stdin, ".gz" transparently decompressed) and
// calls emit once per record. A non-nil error from emit stops the scan.
func Each(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := openReader(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	if err := Scan(ctx, rc, emit); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ReadAll collects every record of path.
func ReadAll(ctx context.Context, path string) ([]Record, error) {
	var out []Record
	err := Each(ctx, path, func(r Record) error {
		out = append(out, r)
		return nil
	})
	return out, err
}

// Scan parses FASTA from r. Sequence data before the first header is an error.
func Scan(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // long single-line sequences
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		id   string
		seq  bytes.Buffer
		line int
	)
	flush := func() error {
		if id == "" {
			return nil
		}
		return emit(Record{ID: id, Seq: seq.String()})
	}
	for sc.Scan() {
		line++
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 || b[0] == ';' {
			continue
		}
		if b[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			fields := strings.Fields(string(b[1:]))
			if len(fields) == 0 {
				return fmt.Errorf("line %d: empty header", line)
			}
			id = fields[0]
			seq.Reset()
			continue
		}
		if id == "" {
			return fmt.Errorf("line %d: sequence before first header", line)
		}
		for _, c := range bytes.ToUpper(b) {
			if c != ' ' && c != '\t' {
				seq.WriteByte(c)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return flush()
}

func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, err
		}
		return struct {
			io.Reader
			io.Closer
		}{Reader: gr, Closer: fh}, nil
	}
	return fh, nil
}
