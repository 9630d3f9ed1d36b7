// core/geometry/predicates.go
// Relative-position predicates between two inverted repeats. All functions
// are pure and total; none of them allocate.

package geometry

import "irfold/core/motif"

// DefaultMinLoopSize is the smallest hairpin the energy model accepts.
// It is an empirical value and every caller takes it as a parameter.
const DefaultMinLoopSize = 3

// HasValidGapSize reports whether m leaves at least minLoop unpaired bases
// between its strands.
func HasValidGapSize(m motif.Motif, minLoop int) bool {
	return m.Right.Start-m.Left.End-1 >= minLoop
}

// CoLocated reports whether a and b pair any base in common.
func CoLocated(a, b motif.Motif) bool {
	return a.Left.Overlaps(b.Left) || a.Left.Overlaps(b.Right) ||
		a.Right.Overlaps(b.Left) || a.Right.Overlaps(b.Right)
}

// NotNested reports whether a and b occupy entirely separate regions.
func NotNested(a, b motif.Motif) bool {
	return a.Last() < b.First() || b.Last() < a.First()
}

// InGap reports whether iv lies strictly between m's strands.
func InGap(m motif.Motif, iv motif.Interval) bool {
	return m.Left.End < iv.Start && iv.End < m.Right.Start
}

// Subsumes reports whether inner's full span sits inside outer's gap.
func Subsumes(outer, inner motif.Motif) bool {
	return outer.Left.End < inner.First() && inner.Last() < outer.Right.Start
}

// WhollyNested reports whether either motif sits entirely inside the other's gap.
func WhollyNested(a, b motif.Motif) bool {
	return Subsumes(a, b) || Subsumes(b, a)
}

// PartiallyNested reports a crossing: one strand of a motif lies inside the
// other's gap while its partner strand lies outside it.
func PartiallyNested(a, b motif.Motif) bool {
	return InGap(a, b.Left) != InGap(a, b.Right) || InGap(b, a.Left) != InGap(b, a.Right)
}

// ValidRelativePosition rejects crossings the energy model cannot score.
func ValidRelativePosition(a, b motif.Motif) bool {
	return NotNested(a, b) || WhollyNested(a, b) || !PartiallyNested(a, b)
}

// FormsValidLoop reports whether the loop closed by the inner strand ends of
// a and b has at least minLoop unpaired bases.
func FormsValidLoop(a, b motif.Motif, minLoop int) bool {
	if WhollyNested(a, b) || NotNested(a, b) {
		return true
	}
	latestLeftEnd := max(a.Left.End, b.Left.End)
	earliestRightStart := min(a.Right.Start, b.Right.Start)
	return earliestRightStart-latestLeftEnd-1 >= minLoop
}
