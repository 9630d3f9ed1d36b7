// core/engine/engine.go
// Fold pipeline: validate → find motifs → validate motifs → build model →
// solve → extract. One call is single-threaded; the engine holds no
// per-call state and may be shared.

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"irfold/core/energy"
	"irfold/core/model"
	"irfold/core/motif"
	"irfold/core/solve"
)

// Status summarises how a fold ended.
type Status string

const (
	StatusOptimal      Status = "optimal"
	StatusFeasible     Status = "feasible"
	StatusInfeasible   Status = "infeasible"
	StatusUnknown      Status = "unknown"
	StatusNoCandidates Status = "no-candidates"
)

// Config holds per-fold parameters.
type Config struct {
	Model model.Config
	// Query carries finder bounds; its Sequence is set by Fold.
	Query Query
	// WorkDir is scratch space for external tools. Empty means a fresh
	// temporary directory removed after the fold.
	WorkDir string
}

// DefaultConfig is the base model with default finder bounds.
func DefaultConfig() Config { return Config{Model: model.Default()} }

// Stats records model size and stage timings.
type Stats struct {
	Variables   int
	Exclusions  int
	Corrections int
	OracleCalls int
	FindTime    time.Duration
	BuildTime   time.Duration
	SolveTime   time.Duration
}

// Result is the outcome of one fold.
type Result struct {
	Sequence   string
	DotBracket string
	// Objective is in kcal/mol.
	Objective  float64
	Status     Status
	Candidates []motif.Motif
	Valid      []int
	Selected   []int
	Stats      Stats
}

// Engine wires a finder, an oracle and a solver.
type Engine struct {
	finder Finder
	oracle energy.Oracle
	solver solve.Solver
	log    *slog.Logger
}

type Option func(*Engine)

// WithSolver replaces the default gophersat backend.
func WithSolver(s solve.Solver) Option { return func(e *Engine) { e.solver = s } }

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

// New creates an Engine.
func New(f Finder, o energy.Oracle, opts ...Option) *Engine {
	e := &Engine{finder: f, oracle: o}
	for _, opt := range opts {
		opt(e)
	}
	if e.solver == nil {
		e.solver = solve.Gophersat{Logger: e.log}
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	return e
}

// Predict folds sequence correcting tuples up to maxTupleSize (at least 2)
// and returns the dot-bracket structure and its objective.
func (e *Engine) Predict(ctx context.Context, sequence string, maxTupleSize int, workDir string) (string, float64, error) {
	if maxTupleSize < 2 {
		return "", 0, configError("max tuple size %d (want >= 2)", maxTupleSize)
	}
	cfg := DefaultConfig()
	cfg.Model.MaxCorrectionTupleSize = maxTupleSize
	cfg.WorkDir = workDir
	res, err := e.Fold(ctx, sequence, cfg)
	if err != nil {
		return "", 0, err
	}
	return res.DotBracket, res.Objective, nil
}

// Fold predicts the secondary structure of sequence.
func (e *Engine) Fold(ctx context.Context, sequence string, cfg Config) (Result, error) {
	seq, err := normalizeSequence(sequence)
	if err != nil {
		return Result{}, err
	}
	if err := cfg.Model.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	log := e.log.With("len", len(seq))

	workDir := cfg.WorkDir
	if workDir == "" {
		dir, err := os.MkdirTemp("", "irfold-*")
		if err != nil {
			return Result{}, fmt.Errorf("work dir: %w", err)
		}
		defer os.RemoveAll(dir)
		workDir = dir
	}

	res := Result{Sequence: seq, Status: StatusNoCandidates, DotBracket: motif.Unfolded(len(seq)).String()}

	q := cfg.Query
	q.Sequence = seq
	q = q.WithDefaults()
	if q.MinLen < 1 || q.MaxLen < q.MinLen || q.MaxGap < 0 || q.Mismatches < 0 {
		return Result{}, configError("finder bounds min=%d max=%d gap=%d mismatches=%d", q.MinLen, q.MaxLen, q.MaxGap, q.Mismatches)
	}
	t0 := time.Now()
	found, err := e.finder.Find(ctx, q, workDir)
	res.Stats.FindTime = time.Since(t0)
	if err != nil {
		return Result{}, fmt.Errorf("find motifs: %w", err)
	}
	res.Candidates = e.validMotifs(found, len(seq), log)
	log.Debug("motifs found", "found", len(found), "kept", len(res.Candidates))
	if len(res.Candidates) == 0 {
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	t0 = time.Now()
	b := &model.Builder{Oracle: e.oracle, Logger: log, WorkDir: workDir}
	m, err := b.Build(ctx, seq, res.Candidates, cfg.Model)
	res.Stats.BuildTime = time.Since(t0)
	if err != nil {
		if errors.Is(err, model.ErrInvalidConfig) {
			return Result{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		return Result{}, fmt.Errorf("build model: %w", err)
	}
	res.Valid = m.Valid
	res.Stats.Variables = m.NumVars
	res.Stats.Exclusions = len(m.Exclusions)
	res.Stats.Corrections = len(m.Corrections)
	res.Stats.OracleCalls = m.OracleCalls
	if len(m.Valid) == 0 {
		return res, nil
	}

	sol, err := e.solver.Solve(ctx, m)
	if err != nil {
		return Result{}, fmt.Errorf("solve: %w", err)
	}
	res.Stats.SolveTime = sol.Elapsed
	res.Status = statusOf(sol.Status)
	if !sol.Status.OK() {
		log.Warn("no usable solution, returning unfolded structure", "status", res.Status)
	}
	ex := solve.Extract(m, sol)
	res.Selected = ex.Selected
	res.DotBracket = ex.DotBracket
	res.Objective = ex.Objective
	log.Debug("fold done", "status", res.Status, "objective", res.Objective, "selected", len(res.Selected))
	return res, nil
}

func statusOf(s solve.Status) Status {
	switch s {
	case solve.StatusOptimal:
		return StatusOptimal
	case solve.StatusFeasible:
		return StatusFeasible
	case solve.StatusInfeasible:
		return StatusInfeasible
	}
	return StatusUnknown
}

// validMotifs drops finder output that violates the motif invariants.
func (e *Engine) validMotifs(found []motif.Motif, seqLen int, log *slog.Logger) []motif.Motif {
	out := make([]motif.Motif, 0, len(found))
	for _, m := range found {
		if err := m.Validate(seqLen); err != nil {
			log.Warn("dropping motif", "motif", m.String(), "err", err)
			continue
		}
		out = append(out, m)
	}
	return out
}

// normalizeSequence upper-cases s and checks it only holds nucleotides.
func normalizeSequence(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", configError("empty sequence")
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'U', 'T', 'N':
		default:
			return "", configError("invalid base %q at position %d", s[i], i+1)
		}
	}
	return s, nil
}
