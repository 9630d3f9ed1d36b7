package writers

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"syscall"
	"testing"

	"github.com/google/go-cmp/cmp"

	"irfold/internal/output"
	"irfold/pkg/api"
)

var results = []api.FoldResultV1{
	{ID: "a", Sequence: "GGGAAACCC", Length: 9, DotBracket: "(((...)))", Objective: -1, Status: "optimal"},
	{ID: "b", Sequence: "AAAA", Length: 4, DotBracket: "....", Status: "no-candidates"},
}

func TestFormatsRegistered(t *testing.T) {
	want := []string{"json", "jsonl", "text", "vienna"}
	if diff := cmp.Diff(want, Formats()); diff != "" {
		t.Fatalf("formats (-want +got):\n%s", diff)
	}
	for _, f := range output.Formats {
		if err := Write(f, io.Discard, results, false); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
	}
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(output.FormatJSONL, &buf, results, false); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d: %q", len(lines), buf.String())
	}
	var got api.FoldResultV1
	if err := json.Unmarshal([]byte(lines[1]), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(results[1], got); diff != "" {
		t.Fatalf("line 2 (-want +got):\n%s", diff)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write("csv", io.Discard, results, false); err == nil {
		t.Fatal("expected error")
	}
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, syscall.EPIPE }

func TestWriteSwallowsBrokenPipe(t *testing.T) {
	for _, f := range output.Formats {
		if err := Write(f, brokenWriter{}, results, false); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
	}
	if !IsBrokenPipe(io.ErrClosedPipe) || IsBrokenPipe(nil) || IsBrokenPipe(io.EOF) {
		t.Fatal("IsBrokenPipe misclassifies")
	}
}
