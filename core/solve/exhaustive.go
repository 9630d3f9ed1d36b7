package solve

import (
	"context"
	"fmt"
	"math"
	"time"

	"irfold/core/model"
)

// MaxExhaustiveIndicators bounds the models Exhaustive accepts.
const MaxExhaustiveIndicators = 20

// Exhaustive enumerates every indicator assignment. Auxiliary variables are
// derived from their correction tuples. Only usable for small models; it
// backs cross-checks of the real backend.
type Exhaustive struct{}

func (Exhaustive) Solve(ctx context.Context, m *model.Model) (Solution, error) {
	n := len(m.Valid)
	if n > MaxExhaustiveIndicators {
		return Solution{}, fmt.Errorf("exhaustive: %d indicators exceeds %d", n, MaxExhaustiveIndicators)
	}
	start := time.Now()
	best := Solution{Status: StatusInfeasible, Cost: math.MaxInt64}
	assign := make([]bool, m.NumVars)
	for mask := 0; mask < 1<<n; mask++ {
		if mask&0xfff == 0 {
			if err := ctx.Err(); err != nil {
				return Solution{}, err
			}
		}
		for i, idx := range m.Valid {
			assign[m.Indicators[idx]-1] = mask&(1<<i) != 0
		}
		for _, c := range m.Corrections {
			on := true
			for _, idx := range c.Members {
				on = on && assign[m.Indicators[idx]-1]
			}
			assign[c.AllActive-1], assign[c.Var-1] = on, on
		}
		if !feasible(m, assign) {
			continue
		}
		if cost := m.Value(assign); cost < best.Cost {
			best = Solution{Status: StatusOptimal, Cost: cost, Assignment: append([]bool(nil), assign...)}
		}
	}
	if best.Status == StatusInfeasible {
		best.Cost = 0
	}
	best.Elapsed = time.Since(start)
	return best, nil
}

func truth(assign []bool, l model.Lit) bool {
	v := assign[l.Var()-1]
	if l < 0 {
		return !v
	}
	return v
}

func feasible(m *model.Model, assign []bool) bool {
	for _, ex := range m.Exclusions {
		on := 0
		for _, l := range ex.Lits {
			if truth(assign, l) {
				on++
			}
		}
		if on > ex.AtMost {
			return false
		}
	}
	for _, c := range m.Clauses {
		sat := false
		for _, l := range c {
			if truth(assign, l) {
				sat = true
				break
			}
		}
		if !sat {
			return false
		}
	}
	return true
}
