package toolexec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"irfold/core/engine"
)

func script(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	p := filepath.Join(t.TempDir(), "tool.sh")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return p
}

func TestRunStdout(t *testing.T) {
	exe := script(t, `cat; echo " done"`)
	out, err := Run(context.Background(), exe, nil, strings.NewReader("in"))
	require.NoError(t, err)
	require.Equal(t, "in done\n", string(out))
}

func TestRunExitCode(t *testing.T) {
	exe := script(t, `echo oops >&2; exit 4`)
	_, err := Run(context.Background(), exe, []string{"-x"}, nil)
	require.ErrorIs(t, err, engine.ErrExternalTool)
	var te *engine.ToolError
	require.True(t, errors.As(err, &te))
	require.Equal(t, 4, te.ExitCode)
	require.Contains(t, te.Stderr, "oops")
}

func TestRunErrorOnStdout(t *testing.T) {
	exe := script(t, `echo "Error: sequence file not found"`)
	_, err := Run(context.Background(), exe, nil, nil)
	require.ErrorIs(t, err, engine.ErrExternalTool)
	require.Contains(t, err.Error(), "sequence file not found")
}

func TestRunMissingExecutable(t *testing.T) {
	_, err := Run(context.Background(), filepath.Join(t.TempDir(), "absent"), nil, nil)
	require.ErrorIs(t, err, engine.ErrExternalTool)
}

func TestRunCancelled(t *testing.T) {
	exe := script(t, `sleep 5`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, exe, nil, nil)
	require.ErrorIs(t, err, context.Canceled)
}
