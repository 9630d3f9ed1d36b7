// core/motif/motif.go
// Inverted-repeat model. Coordinates are 0-based and inclusive on both ends,
// so a strand [2,3] covers two bases.

package motif

import (
	"errors"
	"fmt"
)

// Interval is a closed range of sequence positions.
type Interval struct {
	Start int
	End   int
}

// Len returns the number of positions covered.
func (iv Interval) Len() int { return iv.End - iv.Start + 1 }

// Contains reports whether pos lies in iv.
func (iv Interval) Contains(pos int) bool { return pos >= iv.Start && pos <= iv.End }

// Overlaps reports whether iv and o share at least one position.
func (iv Interval) Overlaps(o Interval) bool { return iv.Start <= o.End && o.Start <= iv.End }

// Motif is an inverted repeat: a left strand that base-pairs with a right strand.
type Motif struct {
	Left  Interval
	Right Interval
}

// New builds a motif from the four strand coordinates.
func New(leftStart, leftEnd, rightStart, rightEnd int) Motif {
	return Motif{Left: Interval{leftStart, leftEnd}, Right: Interval{rightStart, rightEnd}}
}

// StemLen is the number of base pairs the motif forms.
func (m Motif) StemLen() int { return m.Left.Len() }

// Gap is the number of unpaired bases strictly between the two strands.
func (m Motif) Gap() int { return m.Right.Start - m.Left.End - 1 }

// First and Last are the outermost covered positions.
func (m Motif) First() int { return m.Left.Start }
func (m Motif) Last() int  { return m.Right.End }

func (m Motif) String() string {
	return fmt.Sprintf("((%d,%d),(%d,%d))", m.Left.Start, m.Left.End, m.Right.Start, m.Right.End)
}

var (
	ErrEmptyStrand    = errors.New("motif: empty strand")
	ErrStrandOrder    = errors.New("motif: left strand must end before right strand starts")
	ErrUnequalStrands = errors.New("motif: strands differ in length")
	ErrOutOfRange     = errors.New("motif: coordinates outside sequence")
)

// Validate checks the structural invariants. seqLen <= 0 skips the range check.
func (m Motif) Validate(seqLen int) error {
	if m.Left.End < m.Left.Start || m.Right.End < m.Right.Start {
		return fmt.Errorf("%v: %w", m, ErrEmptyStrand)
	}
	if m.Left.End >= m.Right.Start {
		return fmt.Errorf("%v: %w", m, ErrStrandOrder)
	}
	if m.Left.Len() != m.Right.Len() {
		return fmt.Errorf("%v: %w", m, ErrUnequalStrands)
	}
	if m.Left.Start < 0 || (seqLen > 0 && m.Right.End >= seqLen) {
		return fmt.Errorf("%v (len %d): %w", m, seqLen, ErrOutOfRange)
	}
	return nil
}
