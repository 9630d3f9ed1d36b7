package model

import (
	"context"

	"irfold/core/geometry"
)

// addCorrections adds, for n = 2..k, a reified correction variable per
// compatible n-tuple whose union energy differs from its baseline.
func (b *Builder) addCorrections(ctx context.Context, m *Model, cfg Config, k int) error {
	for n := 2; n <= k; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		added, skipped := 0, 0
		err := geometry.ForEachTuple(m.Valid, n, func(tuple []int) error {
			if cfg.Predicates.Incompatible(geometry.Select(m.Candidates, tuple)) {
				skipped++
				return nil
			}
			union, err := b.energy(ctx, m, tuple)
			if err != nil {
				return err
			}
			coef := union - m.baseline(tuple, cfg.Baseline)
			if coef == 0 {
				return nil
			}
			m.addCorrection(append([]int(nil), tuple...), coef)
			added++
			return nil
		})
		if err != nil {
			return err
		}
		b.logger().Debug("corrections", "n", n, "added", added, "incompatible", skipped)
	}
	return nil
}

// baseline is the objective value already attributed to tuple.
func (m *Model) baseline(tuple []int, mode Baseline) int64 {
	var total int64
	for _, idx := range tuple {
		total += m.Singletons[idx]
	}
	if mode == BaselineSingletons {
		return total
	}
	for n := 2; n < len(tuple); n++ {
		_ = geometry.ForEachTuple(tuple, n, func(sub []int) error {
			if c, ok := m.Corrections[KeyOf(sub)]; ok {
				total += c.Coefficient
			}
			return nil
		})
	}
	return total
}

// addCorrection reifies c ⇔ allActive ⇔ (x_1 ∧ … ∧ x_n) and adds coef·c to
// the objective.
func (m *Model) addCorrection(tuple []int, coef int64) {
	all := m.newVar()
	c := m.newVar()
	lits := m.IndicatorLits(tuple)
	closing := Clause{all.Pos()}
	for _, x := range lits {
		m.Clauses = append(m.Clauses, Clause{all.Neg(), x})
		closing = append(closing, -x)
	}
	m.Clauses = append(m.Clauses, closing,
		Clause{c.Neg(), all.Pos()},
		Clause{c.Pos(), all.Neg()},
	)
	key := KeyOf(tuple)
	m.Corrections[key] = &Correction{Key: key, Members: tuple, Coefficient: coef, Var: c, AllActive: all}
	m.Objective = append(m.Objective, Term{Lit: c.Pos(), Weight: coef})
}
