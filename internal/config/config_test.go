package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"irfold/core/engine"
	"irfold/core/geometry"
	"irfold/core/model"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
	ec, err := Default().ToEngine()
	require.NoError(t, err)
	if diff := cmp.Diff(engine.DefaultConfig(), ec); diff != "" {
		t.Fatalf("engine config (-want +got):\n%s", diff)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	data := []byte(`
finder:
  kind: iupacpal
  path: /opt/bin/IUPACpal
  min_len: 3
model:
  max_tuple_size: 3
  baseline: singletons
log:
  level: debug
`)
	c, err := Load(data, ".yml")
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	want := Default()
	want.Finder.Kind = "iupacpal"
	want.Finder.Path = "/opt/bin/IUPACpal"
	want.Finder.MinLen = 3
	want.Model.MaxTupleSize = 3
	want.Model.Baseline = "singletons"
	want.Log.Level = "debug"
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}

	ec, err := c.ToEngine()
	require.NoError(t, err)
	require.Equal(t, 3, ec.Model.MaxCorrectionTupleSize)
	require.Equal(t, model.BaselineSingletons, ec.Model.Baseline)
	require.True(t, ec.Model.PairExclusion)
	require.Equal(t, 3, ec.Query.MinLen)
}

func TestLoadJSONSniffed(t *testing.T) {
	c, err := Load([]byte(`{"model": {"pair_exclusion": false, "predicates": "loop-aware", "min_loop_size": 4}}`), "")
	require.NoError(t, err)
	require.False(t, c.Model.PairExclusion)
	ec, err := c.ToEngine()
	require.NoError(t, err)
	require.Equal(t, geometry.LoopAware{MinLoop: 4}, ec.Model.Predicates)
}

func TestLoadFromPath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "irfold.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"output": "jsonl", "solver": {"timeout": "2s"}}`), 0o644))
	c, err := LoadFromPath(p)
	require.NoError(t, err)
	require.Equal(t, "jsonl", c.Output)
	d, err := c.SolverTimeout()
	require.NoError(t, err)
	require.Equal(t, "2s", d.String())

	_, err = LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load([]byte("finder: [unclosed"), ".yaml")
	require.ErrorIs(t, err, engine.ErrConfiguration)
	_, err = Load([]byte("{"), ".json")
	require.ErrorIs(t, err, engine.ErrConfiguration)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"finder kind":    func(c *Config) { c.Finder.Kind = "blast" },
		"negative gap":   func(c *Config) { c.Finder.MaxGap = -1 },
		"min over max":   func(c *Config) { c.Finder.MinLen, c.Finder.MaxLen = 5, 4 },
		"oracle kind":    func(c *Config) { c.Oracle.Kind = "mfold" },
		"backend":        func(c *Config) { c.Solver.Backend = "cplex" },
		"timeout":        func(c *Config) { c.Solver.Timeout = "soon" },
		"output":         func(c *Config) { c.Output = "csv" },
		"log level":      func(c *Config) { c.Log.Level = "loud" },
		"tuple size one": func(c *Config) { c.Model.MaxTupleSize = 1 },
		"predicates":     func(c *Config) { c.Model.Predicates = "bogus" },
		"baseline":       func(c *Config) { c.Model.Baseline = "median" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			require.ErrorIs(t, c.Validate(), engine.ErrConfiguration)
		})
	}
}
