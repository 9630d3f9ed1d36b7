// Package config loads irfold run configuration from YAML or JSON files.
// Values start from Default, the file overrides them, and command-line
// flags override the file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"irfold/core/engine"
	"irfold/core/geometry"
	"irfold/core/model"
	"irfold/internal/logging"
	"irfold/internal/output"
)

type Finder struct {
	// Kind is "native" or "iupacpal".
	Kind       string `yaml:"kind" json:"kind"`
	Path       string `yaml:"path,omitempty" json:"path,omitempty"`
	MinLen     int    `yaml:"min_len" json:"min_len"`
	MaxLen     int    `yaml:"max_len" json:"max_len"`
	MaxGap     int    `yaml:"max_gap" json:"max_gap"`
	Mismatches int    `yaml:"mismatches" json:"mismatches"`
}

type Oracle struct {
	// Kind is "nn" (built-in nearest-neighbour model) or "rnaeval".
	Kind        string  `yaml:"kind" json:"kind"`
	Path        string  `yaml:"path,omitempty" json:"path,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	// CacheSize bounds the in-memory memo; negative disables it.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
	// CacheDir enables the on-disk energy store.
	CacheDir string `yaml:"cache_dir,omitempty" json:"cache_dir,omitempty"`
}

type Model struct {
	Predicates     string `yaml:"predicates" json:"predicates"`
	PairExclusion  bool   `yaml:"pair_exclusion" json:"pair_exclusion"`
	NWiseExclusion bool   `yaml:"nwise_exclusion" json:"nwise_exclusion"`
	MaxTupleSize   int    `yaml:"max_tuple_size" json:"max_tuple_size"`
	MinLoopSize    int    `yaml:"min_loop_size" json:"min_loop_size"`
	EnergyScale    int    `yaml:"energy_scale" json:"energy_scale"`
	Baseline       string `yaml:"baseline" json:"baseline"`
}

type Solver struct {
	// Backend is "gophersat" or "exhaustive".
	Backend string `yaml:"backend" json:"backend"`
	// Timeout is a Go duration; empty means no limit.
	Timeout string `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

type Log struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Config is the full run configuration.
type Config struct {
	Finder       Finder `yaml:"finder" json:"finder"`
	Oracle       Oracle `yaml:"oracle" json:"oracle"`
	Model        Model  `yaml:"model" json:"model"`
	Solver       Solver `yaml:"solver" json:"solver"`
	WorkDir      string `yaml:"work_dir,omitempty" json:"work_dir,omitempty"`
	KeepWorkDirs bool   `yaml:"keep_work_dirs,omitempty" json:"keep_work_dirs,omitempty"`
	Output       string `yaml:"output" json:"output"`
	Log          Log    `yaml:"log" json:"log"`
}

// Default returns the built-in configuration: native finder, built-in
// energy model, base model with pair exclusions and no corrections.
func Default() Config {
	return Config{
		Finder: Finder{Kind: "native"},
		Oracle: Oracle{Kind: "nn"},
		Model: Model{
			Predicates:    "relative-position",
			PairExclusion: true,
			MinLoopSize:   geometry.DefaultMinLoopSize,
			EnergyScale:   1,
			Baseline:      "cumulative",
		},
		Solver: Solver{Backend: "gophersat"},
		Output: "text",
		Log:    Log{Level: "info", Format: "text"},
	}
}

// LoadFromPath reads a YAML or JSON file over Default. The format is taken
// from the extension (.yaml/.yml, .json) or sniffed from the content.
func LoadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses data over Default. ext is a format hint; empty sniffs.
func Load(data []byte, ext string) (Config, error) {
	c := Default()
	ext = strings.ToLower(ext)
	if ext == "" && strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		ext = ".json"
	}
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("%w: parse config json: %v", engine.ErrConfiguration, err)
		}
	default:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("%w: parse config yaml: %v", engine.ErrConfiguration, err)
		}
	}
	return c, nil
}

// Validate reports every invalid field at once. The error wraps
// engine.ErrConfiguration.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) { errs = append(errs, fmt.Errorf(format, args...)) }

	switch c.Finder.Kind {
	case "native", "iupacpal":
	default:
		bad("finder.kind %q (want native | iupacpal)", c.Finder.Kind)
	}
	if c.Finder.MinLen < 0 || c.Finder.MaxLen < 0 || c.Finder.MaxGap < 0 || c.Finder.Mismatches < 0 {
		bad("finder bounds must be non-negative")
	}
	if c.Finder.MaxLen > 0 && c.Finder.MinLen > c.Finder.MaxLen {
		bad("finder.min_len %d > finder.max_len %d", c.Finder.MinLen, c.Finder.MaxLen)
	}
	switch c.Oracle.Kind {
	case "nn", "rnaeval":
	default:
		bad("oracle.kind %q (want nn | rnaeval)", c.Oracle.Kind)
	}
	switch c.Solver.Backend {
	case "gophersat", "exhaustive":
	default:
		bad("solver.backend %q (want gophersat | exhaustive)", c.Solver.Backend)
	}
	if _, err := c.SolverTimeout(); err != nil {
		bad("solver.timeout: %v", err)
	}
	if !slices.Contains(output.Formats, c.Output) {
		bad("output %q (want %s)", c.Output, strings.Join(output.Formats, " | "))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		bad("log.level: %v", err)
	}
	if _, err := c.ToEngine(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", engine.ErrConfiguration, errors.Join(errs...))
}

// SolverTimeout parses Solver.Timeout; empty is zero.
func (c Config) SolverTimeout() (time.Duration, error) {
	if c.Solver.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Solver.Timeout)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	return d, nil
}

// ToEngine converts the model and finder sections into an engine.Config.
func (c Config) ToEngine() (engine.Config, error) {
	ps, err := geometry.ParsePredicateSet(c.Model.Predicates, c.Model.MinLoopSize)
	if err != nil {
		return engine.Config{}, fmt.Errorf("model.predicates: %w", err)
	}
	bl, err := model.ParseBaseline(c.Model.Baseline)
	if err != nil {
		return engine.Config{}, fmt.Errorf("model.baseline: %w", err)
	}
	mc := model.Config{
		Predicates:             ps,
		PairExclusion:          c.Model.PairExclusion,
		NWiseExclusion:         c.Model.NWiseExclusion,
		MaxCorrectionTupleSize: c.Model.MaxTupleSize,
		MinLoopSize:            c.Model.MinLoopSize,
		EnergyScale:            c.Model.EnergyScale,
		Baseline:               bl,
	}.WithDefaults()
	if err := mc.Validate(); err != nil {
		return engine.Config{}, err
	}
	return engine.Config{
		Model: mc,
		Query: engine.Query{
			MinLen:     c.Finder.MinLen,
			MaxLen:     c.Finder.MaxLen,
			MaxGap:     c.Finder.MaxGap,
			Mismatches: c.Finder.Mismatches,
		},
		WorkDir: c.WorkDir,
	}, nil
}
