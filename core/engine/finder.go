package engine

import (
	"context"

	"irfold/core/motif"
)

// Query parameterises a motif search. Zero values are filled per sequence
// by WithDefaults.
type Query struct {
	Sequence   string
	MinLen     int
	MaxLen     int
	MaxGap     int
	Mismatches int
}

// WithDefaults fills min 2, max L, gap L-1.
func (q Query) WithDefaults() Query {
	n := len(q.Sequence)
	if q.MinLen == 0 {
		q.MinLen = 2
	}
	if q.MaxLen == 0 {
		q.MaxLen = n
	}
	if q.MaxGap == 0 {
		q.MaxGap = max(n-1, 0)
	}
	return q
}

// Finder produces candidate inverted repeats. workDir is scratch space.
type Finder interface {
	Find(ctx context.Context, q Query, workDir string) ([]motif.Motif, error)
}

// FinderFunc adapts a function to Finder.
type FinderFunc func(ctx context.Context, q Query, workDir string) ([]motif.Motif, error)

func (f FinderFunc) Find(ctx context.Context, q Query, workDir string) ([]motif.Motif, error) {
	return f(ctx, q, workDir)
}
