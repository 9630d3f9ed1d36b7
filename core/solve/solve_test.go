package solve

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"irfold/core/energy"
	"irfold/core/model"
	"irfold/core/motif"
)

func tableOracle(energies map[string]float64) energy.Oracle {
	return energy.OracleFunc(func(_ context.Context, db, _, _ string) (float64, error) {
		return energies[db], nil
	})
}

// hashOracle gives every structure a deterministic pseudo-random energy in [-5, 1).
func hashOracle() energy.Oracle {
	return energy.OracleFunc(func(_ context.Context, db, _, _ string) (float64, error) {
		h := fnv.New64a()
		h.Write([]byte(db))
		return float64(h.Sum64()%600)/100 - 5, nil
	})
}

func buildModel(t *testing.T, o energy.Oracle, seqLen int, cands []motif.Motif, cfg model.Config) *model.Model {
	t.Helper()
	b := &model.Builder{Oracle: o}
	m, err := b.Build(context.Background(), strings.Repeat("G", seqLen), cands, cfg)
	require.NoError(t, err)
	return m
}

func TestGophersatPicksLowerOfConflictingPair(t *testing.T) {
	cands := []motif.Motif{motif.New(2, 3, 11, 12), motif.New(5, 6, 11, 12)}
	o := tableOracle(map[string]float64{
		motif.DotBracket(cands[:1], 15): -2,
		motif.DotBracket(cands[1:], 15): -3,
	})
	m := buildModel(t, o, 15, cands, model.Default())
	sol, err := Gophersat{}.Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	require.EqualValues(t, -3, sol.Cost)

	ex := Extract(m, sol)
	require.Equal(t, []int{1}, ex.Selected)
	require.Equal(t, ".....((....))..", ex.DotBracket)
	require.InDelta(t, -3.0, ex.Objective, 1e-9)
}

func TestGophersatSelectsNothingForPositiveEnergies(t *testing.T) {
	cands := []motif.Motif{motif.New(0, 1, 6, 7), motif.New(10, 11, 16, 17)}
	o := energy.OracleFunc(func(context.Context, string, string, string) (float64, error) { return 1.5, nil })
	cfg := model.Default()
	cfg.EnergyScale = 10
	m := buildModel(t, o, 20, cands, cfg)
	sol, err := Gophersat{}.Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	require.Zero(t, sol.Cost)
	ex := Extract(m, sol)
	require.Empty(t, ex.Selected)
	require.Equal(t, strings.Repeat(".", 20), ex.DotBracket)
}

func TestGophersatInfeasible(t *testing.T) {
	m := &model.Model{
		Sequence:    "GGGGG",
		EnergyScale: 1,
		NumVars:     1,
		Clauses:     []model.Clause{{1}, {-1}},
	}
	sol, err := Gophersat{}.Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, StatusInfeasible, sol.Status)
	ex := Extract(m, sol)
	require.Equal(t, ".....", ex.DotBracket)
	require.Zero(t, ex.Objective)
}

func TestGophersatCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Gophersat{}.Solve(ctx, &model.Model{Sequence: "G"})
	require.ErrorIs(t, err, context.Canceled)
}

func randomCandidates(r *rand.Rand, n, seqLen int) []motif.Motif {
	out := make([]motif.Motif, 0, n)
	for len(out) < n {
		stem := 2 + r.IntN(3)
		ls := r.IntN(seqLen)
		rs := ls + stem + 3 + r.IntN(seqLen/2)
		if rs+stem-1 >= seqLen {
			continue
		}
		out = append(out, motif.New(ls, ls+stem-1, rs, rs+stem-1))
	}
	return out
}

func TestGophersatMatchesExhaustive(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for round := 0; round < 8; round++ {
		cands := randomCandidates(r, 7, 40)
		for _, k := range []int{0, 2, 3} {
			cfg := model.Default()
			cfg.MaxCorrectionTupleSize = k
			cfg.EnergyScale = 100
			m := buildModel(t, hashOracle(), 40, cands, cfg)

			want, err := Exhaustive{}.Solve(context.Background(), m)
			require.NoError(t, err)
			got, err := Gophersat{}.Solve(context.Background(), m)
			require.NoError(t, err)

			require.Equal(t, want.Status, got.Status, "round %d k=%d", round, k)
			require.Equal(t, want.Cost, got.Cost, "round %d k=%d", round, k)
			require.True(t, feasible(m, got.Assignment))
		}
	}
}

func TestGophersatNoObjective(t *testing.T) {
	m := &model.Model{Sequence: "GG", EnergyScale: 1, NumVars: 2, Clauses: []model.Clause{{1, 2}}}
	sol, err := Gophersat{}.Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	require.Zero(t, sol.Cost)
	require.True(t, feasible(m, sol.Assignment))
}

// fakeSearch sends costs on found in order, then waits for stop.
func fakeSearch(costs ...int) (found chan incumbent, stop chan struct{}, sent, exited chan struct{}) {
	found = make(chan incumbent)
	stop = make(chan struct{})
	sent = make(chan struct{})
	exited = make(chan struct{})
	go func() {
		defer close(exited)
		defer close(found)
		for _, c := range costs {
			found <- incumbent{cost: c}
		}
		close(sent)
		<-stop
	}()
	return found, stop, sent, exited
}

func TestAwaitTimeoutKeepsBestModel(t *testing.T) {
	found, stop, sent, exited := fakeSearch(5, 3)
	tick := make(chan time.Time)
	type outcome struct {
		best   *incumbent
		status Status
		err    error
	}
	out := make(chan outcome, 1)
	go func() {
		best, status, err := await(context.Background(), found, stop, tick)
		out <- outcome{best, status, err}
	}()
	<-sent
	tick <- time.Now()
	got := <-out

	require.NoError(t, got.err)
	require.Equal(t, StatusFeasible, got.status)
	require.NotNil(t, got.best)
	require.Equal(t, 3, got.best.cost)
	select {
	case <-exited:
	default:
		t.Fatal("search still running after await returned")
	}
}

func TestAwaitTimeoutBeforeFirstModel(t *testing.T) {
	found, stop, _, exited := fakeSearch()
	tick := make(chan time.Time, 1)
	tick <- time.Now()
	best, status, err := await(context.Background(), found, stop, tick)
	require.NoError(t, err)
	require.Equal(t, StatusUnknown, status)
	require.Nil(t, best)
	<-exited
}

func TestAwaitCancelled(t *testing.T) {
	found, stop, sent, exited := fakeSearch(4)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, _, err := await(ctx, found, stop, nil)
		errc <- err
	}()
	<-sent
	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)
	select {
	case <-exited:
	default:
		t.Fatal("search still running after await returned")
	}
}

func TestAwaitSearchFinished(t *testing.T) {
	found := make(chan incumbent, 2)
	found <- incumbent{cost: 7}
	found <- incumbent{cost: 2}
	close(found)
	best, status, err := await(context.Background(), found, make(chan struct{}), nil)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, status)
	require.Equal(t, 2, best.cost)

	empty := make(chan incumbent)
	close(empty)
	best, status, err = await(context.Background(), empty, make(chan struct{}), nil)
	require.NoError(t, err)
	require.Equal(t, StatusInfeasible, status)
	require.Nil(t, best)
}

func TestGophersatTimeoutLeavesNoSearchRunning(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 13))
	cands := randomCandidates(r, 18, 90)
	cfg := model.Default()
	cfg.MaxCorrectionTupleSize = 3
	cfg.EnergyScale = 100
	m := buildModel(t, hashOracle(), 90, cands, cfg)

	before := runtime.NumGoroutine()
	sol, err := Gophersat{Timeout: time.Millisecond}.Solve(context.Background(), m)
	require.NoError(t, err)
	// the search goroutine has closed its channel; give it a moment to exit
	require.Eventually(t, func() bool { return runtime.NumGoroutine() <= before }, time.Second, time.Millisecond)

	require.Contains(t, []Status{StatusOptimal, StatusFeasible, StatusUnknown}, sol.Status)
	if sol.Status.OK() {
		require.True(t, feasible(m, sol.Assignment))
		require.Equal(t, m.Value(sol.Assignment), sol.Cost)
	} else {
		require.Empty(t, Extract(m, sol).Selected)
	}
}

func TestExhaustiveRejectsLargeModels(t *testing.T) {
	m := &model.Model{Valid: make([]int, MaxExhaustiveIndicators+1)}
	_, err := Exhaustive{}.Solve(context.Background(), m)
	require.Error(t, err)
}

func TestStatus(t *testing.T) {
	require.True(t, StatusOptimal.OK())
	require.True(t, StatusFeasible.OK())
	require.False(t, StatusInfeasible.OK())
	require.False(t, StatusUnknown.OK())
	require.Equal(t, "infeasible", StatusInfeasible.String())
}
