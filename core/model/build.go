// core/model/build.go
// Staged model assembly:
//  1) variables    one indicator per candidate with a valid gap
//  2) exclusions   incompatible pairs (and optionally n-tuples)
//  3) objective    Σ x_i · q(E_i)
//  4) corrections  additivity corrections for compatible 2..K tuples

package model

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"irfold/core/energy"
	"irfold/core/geometry"
	"irfold/core/motif"
)

// Builder assembles models against one oracle.
type Builder struct {
	Oracle  energy.Oracle
	Logger  *slog.Logger
	WorkDir string
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// Build runs every stage for sequence and candidates.
func (b *Builder) Build(ctx context.Context, sequence string, candidates []motif.Motif, cfg Config) (*Model, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := newModel(sequence, candidates, cfg.EnergyScale)
	b.addVariables(m, cfg)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := b.addExclusions(ctx, m, cfg); err != nil {
		return nil, err
	}
	if err := b.addObjective(ctx, m); err != nil {
		return nil, err
	}
	if k := min(cfg.MaxCorrectionTupleSize, len(m.Valid)); k >= 2 {
		if err := b.addCorrections(ctx, m, cfg, k); err != nil {
			return nil, err
		}
	}
	b.logger().Debug("model built",
		"candidates", len(candidates), "valid", len(m.Valid),
		"vars", m.NumVars, "exclusions", len(m.Exclusions),
		"corrections", len(m.Corrections), "oracle_calls", m.OracleCalls)
	return m, nil
}

func (b *Builder) addVariables(m *Model, cfg Config) {
	for i, c := range m.Candidates {
		if !geometry.HasValidGapSize(c, cfg.MinLoopSize) {
			continue
		}
		m.Valid = append(m.Valid, i)
		m.Indicators[i] = m.newVar()
	}
}

func (b *Builder) addExclusions(ctx context.Context, m *Model, cfg Config) error {
	excluded := make(map[Key]bool)
	if cfg.PairExclusion {
		_ = geometry.ForEachTuple(m.Valid, 2, func(pair []int) error {
			if cfg.Predicates.Incompatible(geometry.Select(m.Candidates, pair)) {
				excluded[KeyOf(pair)] = true
				m.Exclusions = append(m.Exclusions, Exclusion{Lits: m.IndicatorLits(pair), AtMost: 1})
			}
			return nil
		})
	}
	if !cfg.NWiseExclusion {
		return nil
	}
	maxN := cfg.MaxCorrectionTupleSize
	for n := 3; n <= min(maxN, len(m.Valid)); n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		before := len(m.Exclusions)
		err := geometry.ForEachTuple(m.Valid, n, func(tuple []int) error {
			if hasExcludedPair(tuple, excluded) {
				return nil
			}
			if cfg.Predicates.Incompatible(geometry.Select(m.Candidates, tuple)) {
				m.Exclusions = append(m.Exclusions, Exclusion{Lits: m.IndicatorLits(tuple), AtMost: n - 1})
			}
			return nil
		})
		if err != nil {
			return err
		}
		b.logger().Debug("n-wise exclusions", "n", n, "added", len(m.Exclusions)-before)
	}
	return nil
}

func hasExcludedPair(tuple []int, excluded map[Key]bool) bool {
	for i := 0; i < len(tuple); i++ {
		for j := i + 1; j < len(tuple); j++ {
			if excluded[KeyOf([]int{tuple[i], tuple[j]})] {
				return true
			}
		}
	}
	return false
}

func (b *Builder) addObjective(ctx context.Context, m *Model) error {
	for _, idx := range m.Valid {
		e, err := b.energy(ctx, m, []int{idx})
		if err != nil {
			return err
		}
		m.Singletons[idx] = e
		if e != 0 {
			m.Objective = append(m.Objective, Term{Lit: m.Indicators[idx].Pos(), Weight: e})
		}
	}
	return nil
}

// energy asks the oracle for the union structure of tuple, in scaled units.
func (b *Builder) energy(ctx context.Context, m *Model, tuple []int) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	db := motif.DotBracket(geometry.Select(m.Candidates, tuple), m.SeqLen())
	e, err := b.Oracle.Energy(ctx, db, m.Sequence, b.WorkDir)
	m.OracleCalls++
	if err != nil {
		return 0, fmt.Errorf("energy of %s: %w", db, err)
	}
	return Quantize(e, m.EnergyScale), nil
}

// Quantize scales e and rounds half to even.
func Quantize(e float64, scale int) int64 {
	return int64(math.RoundToEven(e * float64(scale)))
}
