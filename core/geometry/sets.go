package geometry

import (
	"fmt"
	"strings"

	"irfold/core/motif"
)

// PredicateSet decides which motif tuples can never be selected together.
// Implementations must be monotone: a superset of an incompatible tuple is
// incompatible too.
type PredicateSet interface {
	Name() string
	Incompatible(list []motif.Motif) bool
}

// Overlap only forbids motifs that pair the same base.
type Overlap struct{}

func (Overlap) Name() string                         { return "overlap" }
func (Overlap) Incompatible(list []motif.Motif) bool { return IRsCoLocated(list) }

// RelativePosition forbids shared bases and crossings. This is the default.
type RelativePosition struct{}

func (RelativePosition) Name() string                         { return "relative-position" }
func (RelativePosition) Incompatible(list []motif.Motif) bool { return IRsIncompatible(list) }

// LoopAware additionally forbids pairs whose joint loop is too short.
type LoopAware struct {
	MinLoop int
}

func (LoopAware) Name() string { return "loop-aware" }

func (l LoopAware) Incompatible(list []motif.Motif) bool {
	return IRsIncompatible(list) || !IRsFormValidLoops(list, l.MinLoop)
}

// ParsePredicateSet maps a configuration name to a PredicateSet.
func ParsePredicateSet(name string, minLoop int) (PredicateSet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "relative-position", "relative":
		return RelativePosition{}, nil
	case "overlap":
		return Overlap{}, nil
	case "loop-aware", "loop":
		return LoopAware{MinLoop: minLoop}, nil
	default:
		return nil, fmt.Errorf("unknown predicate set %q (want overlap | relative-position | loop-aware)", name)
	}
}
