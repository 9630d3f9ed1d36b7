// Package staging hands out unique per-call working directories so
// concurrent folds never share tool input or output files.
package staging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Dir is one staging directory.
type Dir struct {
	Path string
	keep bool
}

// New creates <root>/irfold-<uuid>. An empty root means os.TempDir().
// With keep set, Close leaves the directory in place for inspection.
func New(root string, keep bool) (*Dir, error) {
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("staging root: %w", err)
	}
	p := filepath.Join(root, "irfold-"+uuid.NewString())
	if err := os.Mkdir(p, 0o750); err != nil {
		return nil, fmt.Errorf("staging dir: %w", err)
	}
	return &Dir{Path: p, keep: keep}, nil
}

// Close removes the directory unless it is kept.
func (d *Dir) Close() error {
	if d == nil || d.keep {
		return nil
	}
	return os.RemoveAll(d.Path)
}
