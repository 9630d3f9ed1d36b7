// Package toolexec runs the external folding tools and maps their failures
// onto engine.ToolError.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"time"

	"irfold/core/engine"
)

const waitDelay = 2 * time.Second

// Run executes exe and returns its stdout. A non-zero exit, a start
// failure, or the word "Error" on stdout is reported as *engine.ToolError.
// stdin may be nil. Cancellation returns ctx.Err().
func Run(ctx context.Context, exe string, args []string, stdin io.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, exe, args...)
	// grandchildren holding the pipes must not stall Wait after a kill
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		te := &engine.ToolError{Tool: exe, Args: args, Stderr: stderr.String(), Err: err}
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			te.ExitCode = ee.ExitCode()
			te.Err = nil
		}
		return nil, te
	}
	if bytes.Contains(stdout.Bytes(), []byte("Error")) {
		return nil, &engine.ToolError{Tool: exe, Args: args, Stderr: stdout.String() + stderr.String()}
	}
	return stdout.Bytes(), nil
}
