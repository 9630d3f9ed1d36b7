// Package appshell wraps a command runner with signal handling and exit
// code normalisation.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// RunFunc runs argv and returns an exit code.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Code runs fn under a context cancelled by SIGINT or SIGTERM. A run that
// reports success after cancellation exits 130. No arguments means --help.
func Code(ctx context.Context, fn RunFunc, argv []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if len(argv) == 0 {
		argv = []string{"--help"}
	}
	code := fn(ctx, argv, stdout, stderr)
	if ctx.Err() != nil && code == 0 {
		code = 130
	}
	return code
}

// Main runs fn with the process arguments and exits.
func Main(fn RunFunc) {
	os.Exit(Code(context.Background(), fn, os.Args[1:], os.Stdout, os.Stderr))
}
