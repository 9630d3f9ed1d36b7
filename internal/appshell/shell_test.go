package appshell

import (
	"context"
	"io"
	"testing"
)

func TestCodeDefaultsToHelp(t *testing.T) {
	var got []string
	code := Code(context.Background(), func(_ context.Context, argv []string, _, _ io.Writer) int {
		got = argv
		return 0
	}, nil, io.Discard, io.Discard)
	if code != 0 || len(got) != 1 || got[0] != "--help" {
		t.Fatalf("code=%d argv=%v", code, got)
	}
}

func TestCodeNormalisesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code := Code(ctx, func(context.Context, []string, io.Writer, io.Writer) int { return 0 }, []string{"fold"}, io.Discard, io.Discard)
	if code != 130 {
		t.Fatalf("code = %d, want 130", code)
	}
	code = Code(ctx, func(context.Context, []string, io.Writer, io.Writer) int { return 3 }, []string{"fold"}, io.Discard, io.Discard)
	if code != 3 {
		t.Fatalf("failure code must survive, got %d", code)
	}
}
