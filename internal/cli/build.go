package cli

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"irfold/core/energy"
	"irfold/core/engine"
	"irfold/core/solve"
	"irfold/internal/config"
	"irfold/internal/finder"
	"irfold/internal/logging"
	"irfold/internal/metrics"
	"irfold/internal/oracle"
)

// stack is everything a command needs to fold.
type stack struct {
	finder engine.Finder
	oracle energy.Oracle
	engine *engine.Engine
	cached *oracle.Cached
	closer func() error
}

func (s *stack) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func newFinder(c config.Config) engine.Finder {
	log := logging.New("finder")
	if c.Finder.Kind == "iupacpal" {
		return finder.IUPACpal{Path: c.Finder.Path, Logger: log}
	}
	return finder.Native{Logger: log}
}

// newOracle layers the configured oracle as: metrics (innermost, so only
// real evaluations are counted), persistent store, in-memory memo.
func newOracle(c config.Config, m *metrics.Metrics) (energy.Oracle, *oracle.Cached, func() error, error) {
	var o energy.Oracle = energy.NearestNeighbour{}
	if c.Oracle.Kind == "rnaeval" {
		o = oracle.RNAeval{Path: c.Oracle.Path, Temperature: c.Oracle.Temperature, Logger: logging.New("rnaeval")}
	}
	if m != nil {
		o = m.Oracle(o)
	}
	closer := func() error { return nil }
	if c.Oracle.CacheDir != "" {
		p, err := oracle.OpenPersistent(o, oracle.StoreConfig{
			Path:      c.Oracle.CacheDir,
			Namespace: energyNamespace(c.Oracle),
			Logger:    logging.New("energy-store"),
		})
		if err != nil {
			return nil, nil, nil, err
		}
		o, closer = p, p.Close
	}
	var cached *oracle.Cached
	if c.Oracle.CacheSize >= 0 {
		cached = oracle.NewCached(o, c.Oracle.CacheSize)
		o = cached
	}
	return o, cached, closer, nil
}

// energyNamespace keys persisted energies by evaluator: kind, temperature
// and, for RNAeval, the resolved executable so separate ViennaRNA installs
// never share entries.
func energyNamespace(o config.Oracle) string {
	ns := fmt.Sprintf("%s@%g", o.Kind, o.Temperature)
	if o.Kind != "rnaeval" {
		return ns
	}
	exe := o.Path
	if exe == "" {
		exe = oracle.DefaultRNAeval
	}
	if p, err := exec.LookPath(exe); err == nil {
		exe = p
	}
	if abs, err := filepath.Abs(exe); err == nil && strings.ContainsRune(exe, filepath.Separator) {
		exe = abs
	}
	return ns + ":" + exe
}

func newSolver(c config.Config, log *slog.Logger) (solve.Solver, error) {
	timeout, err := c.SolverTimeout()
	if err != nil {
		return nil, err
	}
	if c.Solver.Backend == "exhaustive" {
		return solve.Exhaustive{}, nil
	}
	return solve.Gophersat{Timeout: timeout, Logger: log}, nil
}

func newStack(c config.Config, m *metrics.Metrics) (*stack, error) {
	f := newFinder(c)
	o, cached, closer, err := newOracle(c, m)
	if err != nil {
		return nil, err
	}
	s, err := newSolver(c, logging.New("solver"))
	if err != nil {
		_ = closer()
		return nil, err
	}
	e := engine.New(f, o, engine.WithSolver(s), engine.WithLogger(logging.New("engine")))
	return &stack{finder: f, oracle: o, engine: e, cached: cached, closer: closer}, nil
}
