// core/model/model.go
// Solver-neutral pseudo-boolean model: 0/1 variables, at-most constraints,
// clauses and a linear objective with integer weights.

package model

import (
	"strconv"
	"strings"

	"irfold/core/motif"
)

// Var is a 1-based variable handle.
type Var int

// Lit is a signed literal: +v is the variable, -v its negation.
type Lit int

func (v Var) Pos() Lit { return Lit(v) }
func (v Var) Neg() Lit { return Lit(-v) }

func (l Lit) Var() Var {
	if l < 0 {
		return Var(-l)
	}
	return Var(l)
}

// Term is one weighted literal of the objective.
type Term struct {
	Lit    Lit
	Weight int64
}

// Exclusion bounds the number of true literals: Σ lits ≤ AtMost.
type Exclusion struct {
	Lits   []Lit
	AtMost int
}

// Clause is a disjunction of literals.
type Clause []Lit

// Key identifies a tuple of candidate indices, e.g. "0,3,7".
type Key string

// KeyOf builds the key for an ascending tuple.
func KeyOf(tuple []int) Key {
	var b strings.Builder
	for i, v := range tuple {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return Key(b.String())
}

// Correction adjusts the objective when every member of a tuple is selected.
type Correction struct {
	Key         Key
	Members     []int
	Coefficient int64
	Var         Var
	AllActive   Var
}

// Model is built fresh for one fold and consumed by one solve.
type Model struct {
	Sequence   string
	Candidates []motif.Motif
	// Valid lists candidate indices that passed the gap check, ascending.
	Valid       []int
	Indicators  map[int]Var
	Singletons  map[int]int64
	Corrections map[Key]*Correction
	Exclusions  []Exclusion
	Clauses     []Clause
	Objective   []Term
	// EnergyScale converts objective units back to kcal/mol.
	EnergyScale int
	NumVars     int
	OracleCalls int
}

func newModel(sequence string, candidates []motif.Motif, scale int) *Model {
	return &Model{
		Sequence:    sequence,
		Candidates:  candidates,
		Indicators:  make(map[int]Var),
		Singletons:  make(map[int]int64),
		Corrections: make(map[Key]*Correction),
		EnergyScale: scale,
	}
}

func (m *Model) newVar() Var {
	m.NumVars++
	return Var(m.NumVars)
}

// SeqLen is the length of the folded sequence.
func (m *Model) SeqLen() int { return len(m.Sequence) }

// IndicatorLits returns the positive indicator literals of tuple.
func (m *Model) IndicatorLits(tuple []int) []Lit {
	lits := make([]Lit, len(tuple))
	for i, idx := range tuple {
		lits[i] = m.Indicators[idx].Pos()
	}
	return lits
}

// Selected returns the candidate indices whose indicator is true under
// assignment, ascending. assignment is indexed by Var-1.
func (m *Model) Selected(assignment []bool) []int {
	var out []int
	for _, idx := range m.Valid {
		v := m.Indicators[idx]
		if int(v) <= len(assignment) && assignment[v-1] {
			out = append(out, idx)
		}
	}
	return out
}

// Value evaluates the objective under assignment, in scaled units.
func (m *Model) Value(assignment []bool) int64 {
	var total int64
	for _, t := range m.Objective {
		val := assignment[t.Lit.Var()-1]
		if t.Lit < 0 {
			val = !val
		}
		if val {
			total += t.Weight
		}
	}
	return total
}
