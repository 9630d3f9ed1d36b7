package geometry

import (
	"testing"

	"irfold/core/motif"
)

var (
	sharedA       = motif.New(2, 3, 11, 12)
	sharedB       = motif.New(5, 6, 11, 12)
	disjointA     = motif.New(0, 1, 6, 7)
	disjointB     = motif.New(10, 11, 15, 16)
	outer         = motif.New(0, 1, 28, 29)
	inner         = motif.New(3, 4, 9, 10)
	crossA        = motif.New(0, 1, 10, 11)
	crossB        = motif.New(5, 6, 15, 16)
	crossTightB   = motif.New(5, 7, 15, 17)
	noGap         = motif.New(0, 1, 2, 3)
	minimalHairpn = motif.New(0, 1, 5, 6)
)

func TestHasValidGapSize(t *testing.T) {
	if HasValidGapSize(noGap, DefaultMinLoopSize) {
		t.Fatalf("%v has no bases between its strands", noGap)
	}
	if !HasValidGapSize(minimalHairpn, DefaultMinLoopSize) {
		t.Fatalf("%v leaves exactly three bases", minimalHairpn)
	}
	if HasValidGapSize(minimalHairpn, 4) {
		t.Fatalf("threshold must be honoured")
	}
}

func TestPairPredicates(t *testing.T) {
	tests := []struct {
		name                      string
		a, b                      motif.Motif
		coLoc, notNest, wholly    bool
		partial, validRel, loopOK bool
	}{
		{"shared bases", sharedA, sharedB, true, false, false, true, false, true},
		{"disjoint", disjointA, disjointB, false, true, false, false, true, true},
		{"wholly nested", outer, inner, false, false, true, false, true, true},
		{"wholly nested reversed", inner, outer, false, false, true, false, true, true},
		{"crossing", crossA, crossB, false, false, false, true, false, true},
		{"crossing tight loop", crossA, crossTightB, false, false, false, true, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CoLocated(tc.a, tc.b); got != tc.coLoc {
				t.Errorf("CoLocated = %v, want %v", got, tc.coLoc)
			}
			if got := NotNested(tc.a, tc.b); got != tc.notNest {
				t.Errorf("NotNested = %v, want %v", got, tc.notNest)
			}
			if got := WhollyNested(tc.a, tc.b); got != tc.wholly {
				t.Errorf("WhollyNested = %v, want %v", got, tc.wholly)
			}
			if got := PartiallyNested(tc.a, tc.b); got != tc.partial {
				t.Errorf("PartiallyNested = %v, want %v", got, tc.partial)
			}
			if got := ValidRelativePosition(tc.a, tc.b); got != tc.validRel {
				t.Errorf("ValidRelativePosition = %v, want %v", got, tc.validRel)
			}
			if got := FormsValidLoop(tc.a, tc.b, DefaultMinLoopSize); got != tc.loopOK {
				t.Errorf("FormsValidLoop = %v, want %v", got, tc.loopOK)
			}
			// every predicate is symmetric
			if CoLocated(tc.a, tc.b) != CoLocated(tc.b, tc.a) ||
				PartiallyNested(tc.a, tc.b) != PartiallyNested(tc.b, tc.a) ||
				NotNested(tc.a, tc.b) != NotNested(tc.b, tc.a) {
				t.Errorf("asymmetric predicate for %v / %v", tc.a, tc.b)
			}
		})
	}
}

func TestSubsumesIsDirectional(t *testing.T) {
	if !Subsumes(outer, inner) {
		t.Fatal("outer should subsume inner")
	}
	if Subsumes(inner, outer) {
		t.Fatal("inner cannot subsume outer")
	}
}
