package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"irfold/core/engine"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

// runtimeError marks errors raised while a command ran, as opposed to
// errors cobra reports while parsing the command line.
type runtimeError struct{ err error }

func (e runtimeError) Error() string { return e.err.Error() }
func (e runtimeError) Unwrap() error { return e.err }

func failed(err error) error {
	if err == nil {
		return nil
	}
	return runtimeError{err}
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	var re runtimeError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCanceled
	case errors.Is(err, engine.ErrConfiguration):
		return ExitUsage
	case errors.As(err, &re):
		return ExitRuntime
	}
	return ExitUsage
}

// Warnf prints a user-facing warning unless quiet is set.
func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
}
