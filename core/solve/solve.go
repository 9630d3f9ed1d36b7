// core/solve/solve.go
// Solver contract, status taxonomy and solution extraction.

package solve

import (
	"context"
	"time"

	"irfold/core/geometry"
	"irfold/core/model"
	"irfold/core/motif"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	}
	return "unknown"
}

// OK reports whether the solution carries a usable assignment.
func (s Status) OK() bool { return s == StatusOptimal || s == StatusFeasible }

// Solution is a solver's answer for one model.
type Solution struct {
	Status Status
	// Assignment is indexed by Var-1.
	Assignment []bool
	// Cost is the objective in scaled integer units.
	Cost    int64
	Elapsed time.Duration
}

// Solver minimises a model's objective subject to its constraints.
type Solver interface {
	Solve(ctx context.Context, m *model.Model) (Solution, error)
}

// Extraction is the structure read back from a solution.
type Extraction struct {
	Selected   []int
	DotBracket string
	Objective  float64
}

// Extract projects the selected indicators of sol. Correction variables
// are ignored. Unsuccessful statuses extract as fully unpaired with a zero
// objective.
func Extract(m *model.Model, sol Solution) Extraction {
	if !sol.Status.OK() {
		return Extraction{DotBracket: motif.Unfolded(m.SeqLen()).String()}
	}
	selected := m.Selected(sol.Assignment)
	return Extraction{
		Selected:   selected,
		DotBracket: motif.DotBracket(geometry.Select(m.Candidates, selected), m.SeqLen()),
		Objective:  float64(sol.Cost) / float64(max(m.EnergyScale, 1)),
	}
}
