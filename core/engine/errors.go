package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks invalid parameters or input.
	ErrConfiguration = errors.New("configuration error")
	// ErrExternalTool marks a failed or unparsable external process.
	ErrExternalTool = errors.New("external tool failed")
)

// ToolError describes one failed external process call.
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", e.Tool)
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, ": %s", s)
	}
	return b.String()
}

func (e *ToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExternalTool}
	}
	return []error{ErrExternalTool, e.Err}
}

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
