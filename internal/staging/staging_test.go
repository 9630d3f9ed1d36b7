package staging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIsUniqueAndRemoved(t *testing.T) {
	root := t.TempDir()
	a, err := New(root, false)
	require.NoError(t, err)
	b, err := New(root, false)
	require.NoError(t, err)
	require.NotEqual(t, a.Path, b.Path)
	require.Equal(t, root, filepath.Dir(a.Path))
	require.True(t, strings.HasPrefix(filepath.Base(a.Path), "irfold-"))

	require.NoError(t, os.WriteFile(filepath.Join(a.Path, "x.fasta"), []byte(">x\nA\n"), 0o644))
	require.NoError(t, a.Close())
	require.NoDirExists(t, a.Path)
	require.DirExists(t, b.Path)
}

func TestKeep(t *testing.T) {
	d, err := New(filepath.Join(t.TempDir(), "nested", "root"), true)
	require.NoError(t, err)
	require.NoError(t, d.Close())
	require.DirExists(t, d.Path)
}
