package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"irfold/core/engine"
	"irfold/internal/config"
)

// options mirrors config.Config on the command line. A flag only overrides
// the config file when it was set explicitly.
type options struct {
	configPath string
	quiet      bool
	verbose    bool

	logLevel  string
	logFormat string

	finderKind string
	finderPath string
	minLen     int
	maxLen     int
	maxGap     int
	mismatches int

	oracleKind  string
	oraclePath  string
	temperature float64
	cacheSize   int
	cacheDir    string

	maxTuple        int
	predicates      string
	noPairExclusion bool
	nwise           bool
	minLoop         int
	energyScale     int
	baseline        string

	solver  string
	timeout string

	workDir      string
	keepWorkDirs bool
	output       string
}

func (o *options) register(fs *pflag.FlagSet) {
	d := config.Default()
	fs.StringVarP(&o.configPath, "config", "c", "", "YAML or JSON configuration file")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "suppress warnings")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "text output lists candidate motifs and model stats")

	fs.StringVar(&o.logLevel, "log-level", d.Log.Level, "debug | info | warn | error")
	fs.StringVar(&o.logFormat, "log-format", d.Log.Format, "text | json")

	fs.StringVar(&o.finderKind, "finder", d.Finder.Kind, "motif finder: native | iupacpal")
	fs.StringVar(&o.finderPath, "finder-path", "", "IUPACpal executable (default: IUPACpal on PATH)")
	fs.IntVar(&o.minLen, "min-len", 0, "minimum stem length (0 = 2)")
	fs.IntVar(&o.maxLen, "max-len", 0, "maximum stem length (0 = sequence length)")
	fs.IntVar(&o.maxGap, "max-gap", 0, "maximum gap between strands (0 = length-1)")
	fs.IntVar(&o.mismatches, "mismatches", 0, "mismatches allowed by the finder")

	fs.StringVar(&o.oracleKind, "oracle", d.Oracle.Kind, "energy oracle: nn | rnaeval")
	fs.StringVar(&o.oraclePath, "oracle-path", "", "RNAeval executable (default: RNAeval on PATH)")
	fs.Float64Var(&o.temperature, "temperature", 0, "RNAeval temperature in °C (0 = tool default)")
	fs.IntVar(&o.cacheSize, "cache-size", 0, "in-memory energy cache entries (0 = default, <0 = off)")
	fs.StringVar(&o.cacheDir, "cache-dir", "", "persistent energy cache directory")

	fs.IntVarP(&o.maxTuple, "max-tuple", "k", d.Model.MaxTupleSize, "largest motif tuple to correct (0 = no corrections)")
	fs.StringVar(&o.predicates, "predicates", d.Model.Predicates, "incompatibility rules: overlap | relative-position | loop-aware")
	fs.BoolVar(&o.noPairExclusion, "no-pair-exclusion", false, "do not forbid incompatible pairs")
	fs.BoolVar(&o.nwise, "nwise-exclusion", false, "forbid incompatible tuples not covered by pairs")
	fs.IntVar(&o.minLoop, "min-loop", d.Model.MinLoopSize, "minimum hairpin loop size")
	fs.IntVar(&o.energyScale, "energy-scale", d.Model.EnergyScale, "integer weights per kcal/mol")
	fs.StringVar(&o.baseline, "baseline", d.Model.Baseline, "correction baseline: cumulative | singletons")

	fs.StringVar(&o.solver, "solver", d.Solver.Backend, "gophersat | exhaustive")
	fs.StringVar(&o.timeout, "timeout", "", "solver time limit, e.g. 30s")

	fs.StringVar(&o.workDir, "work-dir", "", "root for per-sequence working directories")
	fs.BoolVar(&o.keepWorkDirs, "keep-work-dirs", false, "leave working directories for inspection")
	fs.StringVarP(&o.output, "output", "o", d.Output, "text | json | jsonl | vienna")
}

// load reads the config file (if any) and applies explicitly set flags.
func (o *options) load(fs *pflag.FlagSet) (config.Config, error) {
	c := config.Default()
	if o.configPath != "" {
		var err error
		if c, err = config.LoadFromPath(o.configPath); err != nil {
			if errors.Is(err, engine.ErrConfiguration) {
				return config.Config{}, err
			}
			return config.Config{}, fmt.Errorf("%w: %v", engine.ErrConfiguration, err)
		}
	}
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("log-level", func() { c.Log.Level = o.logLevel })
	set("log-format", func() { c.Log.Format = o.logFormat })
	set("finder", func() { c.Finder.Kind = o.finderKind })
	set("finder-path", func() { c.Finder.Path = o.finderPath })
	set("min-len", func() { c.Finder.MinLen = o.minLen })
	set("max-len", func() { c.Finder.MaxLen = o.maxLen })
	set("max-gap", func() { c.Finder.MaxGap = o.maxGap })
	set("mismatches", func() { c.Finder.Mismatches = o.mismatches })
	set("oracle", func() { c.Oracle.Kind = o.oracleKind })
	set("oracle-path", func() { c.Oracle.Path = o.oraclePath })
	set("temperature", func() { c.Oracle.Temperature = o.temperature })
	set("cache-size", func() { c.Oracle.CacheSize = o.cacheSize })
	set("cache-dir", func() { c.Oracle.CacheDir = o.cacheDir })
	set("max-tuple", func() { c.Model.MaxTupleSize = o.maxTuple })
	set("predicates", func() { c.Model.Predicates = o.predicates })
	set("no-pair-exclusion", func() { c.Model.PairExclusion = !o.noPairExclusion })
	set("nwise-exclusion", func() { c.Model.NWiseExclusion = o.nwise })
	set("min-loop", func() { c.Model.MinLoopSize = o.minLoop })
	set("energy-scale", func() { c.Model.EnergyScale = o.energyScale })
	set("baseline", func() { c.Model.Baseline = o.baseline })
	set("solver", func() { c.Solver.Backend = o.solver })
	set("timeout", func() { c.Solver.Timeout = o.timeout })
	set("work-dir", func() { c.WorkDir = o.workDir })
	set("keep-work-dirs", func() { c.KeepWorkDirs = o.keepWorkDirs })
	set("output", func() { c.Output = o.output })
	if err := c.Validate(); err != nil {
		return config.Config{}, err
	}
	return c, nil
}
