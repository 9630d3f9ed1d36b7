// core/solve/gophersat.go
// Pseudo-boolean backend on github.com/crillab/gophersat/solver.
//
// Mapping:
//  - exclusion Σ l ≤ k is solver.AtMost
//  - clauses are solver.PropClause
//  - objective weights are merged per variable; net w > 0 costs w when the
//    variable is true, net w < 0 costs -w when it is false plus a constant w
//
// The optimum is found by linear search: solve, then require a cheaper
// model with a PB constraint over the cost literals, until unsatisfiable.
// Every improvement is handed back as soon as it is found, so a timeout
// still yields the best model so far.

package solve

import (
	"context"
	"log/slog"
	"time"

	"github.com/crillab/gophersat/solver"

	"irfold/core/model"
)

// Gophersat solves to optimality. Timeout > 0 bounds the search: the best
// model found by then is returned as StatusFeasible, or StatusUnknown if
// there is none. gophersat cannot interrupt a single SAT call, so the one
// running when the limit hits finishes before Solve returns.
type Gophersat struct {
	Timeout time.Duration
	Logger  *slog.Logger
}

// encoding is a model translated for gophersat.
type encoding struct {
	constrs     []solver.PBConstr
	costLits    []solver.Lit
	costWeights []int
	maxCost     int
	offset      int64
}

func encode(m *model.Model) encoding {
	var enc encoding
	all := make([]int, m.NumVars)
	for v := range all {
		all[v] = v + 1
	}
	// AtLeast 0 is dropped as trivially true but still sizes the variable set.
	enc.constrs = append(enc.constrs, solver.AtLeast(all, 0))
	for _, ex := range m.Exclusions {
		ls := make([]int, len(ex.Lits))
		for i, l := range ex.Lits {
			ls[i] = int(l)
		}
		enc.constrs = append(enc.constrs, solver.AtMost(ls, ex.AtMost))
	}
	for _, c := range m.Clauses {
		ls := make([]int, len(c))
		for i, l := range c {
			ls[i] = int(l)
		}
		enc.constrs = append(enc.constrs, solver.PropClause(ls...))
	}

	net := make(map[model.Var]int64, len(m.Objective))
	var order []model.Var
	for _, t := range m.Objective {
		v, w := t.Lit.Var(), t.Weight
		if t.Lit < 0 {
			// w·¬v = w - w·v
			enc.offset += w
			w = -w
		}
		if _, seen := net[v]; !seen {
			order = append(order, v)
		}
		net[v] += w
	}
	for _, v := range order {
		w := net[v]
		switch {
		case w > 0:
			enc.costLits = append(enc.costLits, solver.IntToLit(int32(v)))
			enc.costWeights = append(enc.costWeights, int(w))
		case w < 0:
			enc.costLits = append(enc.costLits, solver.IntToLit(int32(-v)))
			enc.costWeights = append(enc.costWeights, int(-w))
			enc.offset += w
		default:
			continue
		}
		enc.maxCost += int(abs64(w))
	}
	return enc
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// cost is the weight of the cost literals true in assign.
func (enc encoding) cost(assign []bool) int {
	total := 0
	for i, l := range enc.costLits {
		if assign[l.Var()] == l.IsPositive() {
			total += enc.costWeights[i]
		}
	}
	return total
}

// tighten demands a model strictly cheaper than cost.
func (enc encoding) tighten(cost int) *solver.Clause {
	lits := make([]solver.Lit, len(enc.costLits))
	for i, l := range enc.costLits {
		lits[i] = l.Negation()
	}
	weights := append([]int(nil), enc.costWeights...)
	return solver.NewPBClause(lits, weights, enc.maxCost-cost+1)
}

// incumbent is an improving model found by search.
type incumbent struct {
	assign []bool
	cost   int
}

// search sends each improving model on found and closes it when the
// optimum is proven, the problem is unsatisfiable, or stop is closed.
func (enc encoding) search(s *solver.Solver, found chan<- incumbent, stop <-chan struct{}) {
	defer close(found)
	for s.Solve() == solver.Sat {
		inc := incumbent{assign: s.Model()}
		inc.cost = enc.cost(inc.assign)
		select {
		case found <- inc:
		case <-stop:
			return
		}
		if inc.cost == 0 {
			return
		}
		select {
		case <-stop:
			return
		default:
		}
		s.AppendClause(enc.tighten(inc.cost))
	}
}

func (g Gophersat) Solve(ctx context.Context, m *model.Model) (Solution, error) {
	if err := ctx.Err(); err != nil {
		return Solution{}, err
	}
	start := time.Now()
	if m.NumVars == 0 {
		return Solution{Status: StatusOptimal, Elapsed: time.Since(start)}, nil
	}
	enc := encode(m)
	prob := solver.ParsePBConstrs(enc.constrs)
	prob.SetCostFunc(enc.costLits, enc.costWeights)
	s := solver.New(prob)

	found := make(chan incumbent)
	stop := make(chan struct{})
	go enc.search(s, found, stop)

	var timeout <-chan time.Time
	if g.Timeout > 0 {
		timer := time.NewTimer(g.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}
	best, status, err := await(ctx, found, stop, timeout)
	if err != nil {
		return Solution{}, err
	}

	sol := Solution{Status: status, Elapsed: time.Since(start)}
	if best == nil {
		if status == StatusUnknown {
			g.logger().Warn("solver timed out without a model", "timeout", g.Timeout, "vars", m.NumVars)
		}
		return sol, nil
	}
	if status == StatusFeasible {
		g.logger().Warn("solver timed out, using best model so far", "timeout", g.Timeout, "vars", m.NumVars)
	}
	sol.Assignment = make([]bool, m.NumVars)
	copy(sol.Assignment, best.assign)
	sol.Cost = int64(best.cost) + enc.offset
	if got := m.Value(sol.Assignment); got != sol.Cost {
		g.logger().Warn("solver cost disagrees with model objective", "solver", sol.Cost, "model", got)
		sol.Cost = got
	}
	return sol, nil
}

// await collects improving models until search ends, the timeout fires or
// ctx is cancelled. It always waits for found to close, so no search
// goroutine outlives the call.
func await(ctx context.Context, found <-chan incumbent, stop chan<- struct{}, timeout <-chan time.Time) (*incumbent, Status, error) {
	var best *incumbent
	keep := func(inc incumbent) {
		if best == nil || inc.cost < best.cost {
			best = &inc
		}
	}
	drain := func() {
		close(stop)
		for inc := range found {
			keep(inc)
		}
	}
	for {
		select {
		case inc, ok := <-found:
			if !ok {
				if best == nil {
					return nil, StatusInfeasible, nil
				}
				return best, StatusOptimal, nil
			}
			keep(inc)
		case <-ctx.Done():
			drain()
			return nil, StatusUnknown, ctx.Err()
		case <-timeout:
			drain()
			if best == nil {
				return nil, StatusUnknown, nil
			}
			return best, StatusFeasible, nil
		}
	}
}

func (g Gophersat) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return g.Logger
}
