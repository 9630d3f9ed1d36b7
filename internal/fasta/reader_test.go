// internal/fasta/reader_test.go
package fasta

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const plain = `>seq1 first record
ACGU
acgu
; comment
>seq2
NNnn
`

func writeGz(t *testing.T, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "test.fa.gz")
	fh, err := os.Create(p)
	if err != nil {
		t.Fatalf("tmp: %v", err)
	}
	gw := gzip.NewWriter(fh)
	if _, err := gw.Write([]byte(data)); err != nil {
		t.Fatalf("write gz: %v", err)
	}
	gw.Close()
	fh.Close()
	return p
}

func TestReadAllGzip(t *testing.T) {
	recs, err := ReadAll(context.Background(), writeGz(t, plain))
	if err != nil {
		t.Fatalf("read gz: %v", err)
	}
	want := []Record{{ID: "seq1", Seq: "ACGUACGU"}, {ID: "seq2", Seq: "NNNN"}}
	if diff := cmp.Diff(want, recs); diff != "" {
		t.Fatalf("records (-want +got):\n%s", diff)
	}
}

func TestEachStdin(t *testing.T) {
	orig := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r
	defer func() { os.Stdin = orig }()
	go func() { io.WriteString(w, plain); w.Close() }()

	count := 0
	err := Each(context.Background(), "-", func(Record) error { count++; return nil })
	if err != nil {
		t.Fatalf("stdin: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 records from stdin, got %d", count)
	}
}

func TestScanErrors(t *testing.T) {
	for _, in := range []string{"ACGU\n>x\nA\n", ">\nACGU\n"} {
		if err := Scan(context.Background(), strings.NewReader(in), func(Record) error { return nil }); err == nil {
			t.Errorf("Scan(%q): expected error", in)
		}
	}
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rec := Record{ID: "s", Seq: strings.Repeat("ACGU", 20)}
	if err := Write(&buf, rec, 60); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || len(lines[1]) != 60 || len(lines[2]) != 20 {
		t.Fatalf("unexpected wrapping:\n%s", buf.String())
	}
	p := filepath.Join(t.TempDir(), "s.fasta")
	if err := WriteFile(p, rec); err != nil {
		t.Fatal(err)
	}
	got, err := ReadAll(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Record{rec}, got); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}
