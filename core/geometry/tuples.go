// core/geometry/tuples.go
// n-tuple generalisation of the pairwise predicates.

package geometry

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/stat/combin"

	"irfold/core/motif"
)

// TupleCount returns C(m, n), or 0 when no n-tuple exists.
func TupleCount(m, n int) int {
	if n < 1 || n > m {
		return 0
	}
	return combin.Binomial(m, n)
}

// ForEachTuple calls fn with every size-n combination of valid, in
// lexicographic order of positions within valid. The slice passed to fn is
// reused between calls; copy it to keep it. A non-nil error from fn stops the
// enumeration and is returned.
func ForEachTuple(valid []int, n int, fn func(tuple []int) error) error {
	if n < 1 || n > len(valid) {
		return nil
	}
	gen := combin.NewCombinationGenerator(len(valid), n)
	pos := make([]int, n)
	tuple := make([]int, n)
	for gen.Next() {
		gen.Combination(pos)
		for i, p := range pos {
			tuple[i] = valid[p]
		}
		if err := fn(tuple); err != nil {
			return err
		}
	}
	return nil
}

// Select returns the motifs at idx, in order.
func Select(candidates []motif.Motif, idx []int) []motif.Motif {
	out := make([]motif.Motif, len(idx))
	for i, k := range idx {
		out[i] = candidates[k]
	}
	return out
}

func byLeftStart(list []motif.Motif) []motif.Motif {
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b motif.Motif) int {
		return cmp.Compare(a.Left.Start, b.Left.Start)
	})
	return sorted
}

func anyPair(list []motif.Motif, pred func(a, b motif.Motif) bool) bool {
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			if pred(list[i], list[j]) {
				return true
			}
		}
	}
	return false
}

func chain(list []motif.Motif, pred func(a, b motif.Motif) bool) bool {
	sorted := byLeftStart(list)
	for i := 1; i < len(sorted); i++ {
		if !pred(sorted[i-1], sorted[i]) {
			return false
		}
	}
	return true
}

// IRsCoLocated reports whether any two motifs in list share a base.
func IRsCoLocated(list []motif.Motif) bool { return anyPair(list, CoLocated) }

// IRsNotNested reports whether consecutive motifs, ordered by left-strand
// start, are pairwise disjoint.
func IRsNotNested(list []motif.Motif) bool { return chain(list, NotNested) }

// IRsWhollyNested reports whether each motif, ordered by left-strand start,
// subsumes the next one.
func IRsWhollyNested(list []motif.Motif) bool { return chain(list, Subsumes) }

// IRsPartiallyNested reports whether any two motifs cross.
func IRsPartiallyNested(list []motif.Motif) bool { return anyPair(list, PartiallyNested) }

// IRsValidRelativePosition reports whether the motifs in list fit together
// without crossing. Disjoint and nested chains always do.
func IRsValidRelativePosition(list []motif.Motif) bool {
	return IRsNotNested(list) || IRsWhollyNested(list) || !IRsPartiallyNested(list)
}

// IRsIncompatible reports whether the motifs in list may never be selected together.
func IRsIncompatible(list []motif.Motif) bool {
	return IRsCoLocated(list) || !IRsValidRelativePosition(list)
}

// IRsFormValidLoops reports whether every pair in list closes a loop of at least minLoop bases.
func IRsFormValidLoops(list []motif.Motif, minLoop int) bool {
	return !anyPair(list, func(a, b motif.Motif) bool { return !FormsValidLoop(a, b, minLoop) })
}
