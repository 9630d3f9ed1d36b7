package finder

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"irfold/core/engine"
	"irfold/core/motif"
)

// Native enumerates perfect Watson-Crick inverted repeats in process. It
// reports each stem at its widest extent: a repeat is emitted only when the
// pair just outside it does not also match. It needs no external tool and
// does not support mismatches.
type Native struct {
	Logger *slog.Logger
}

func complementary(a, b byte) bool {
	switch a {
	case 'A':
		return b == 'U' || b == 'T'
	case 'U', 'T':
		return b == 'A'
	case 'G':
		return b == 'C'
	case 'C':
		return b == 'G'
	}
	return false
}

func (n Native) Find(ctx context.Context, q engine.Query, _ string) ([]motif.Motif, error) {
	q = q.WithDefaults()
	if q.Mismatches > 0 {
		return nil, fmt.Errorf("%w: native finder does not support mismatches (got %d)", engine.ErrConfiguration, q.Mismatches)
	}
	s := q.Sequence
	L := len(s)
	var out []motif.Motif
	for i := 0; i < L; i++ {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for j := L - 1; j > i; j-- {
			if !complementary(s[i], s[j]) {
				continue
			}
			if i > 0 && j < L-1 && complementary(s[i-1], s[j+1]) {
				continue
			}
			k := 0
			for k < q.MaxLen && i+k < j-k && complementary(s[i+k], s[j-k]) {
				k++
			}
			if k < q.MinLen || j-i-2*k+1 > q.MaxGap {
				continue
			}
			out = append(out, motif.New(i, i+k-1, j-k+1, j))
		}
	}
	slices.SortFunc(out, func(a, b motif.Motif) int {
		if c := a.Left.Start - b.Left.Start; c != 0 {
			return c
		}
		if c := a.Left.End - b.Left.End; c != 0 {
			return c
		}
		return a.Right.Start - b.Right.Start
	})
	logger(n.Logger).Debug("native finder", "found", len(out))
	return out, nil
}
