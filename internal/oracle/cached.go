package oracle

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"irfold/core/energy"
	"irfold/internal/runutil"
)

// Cached memoises an oracle by (sequence, structure). Concurrent lookups of
// the same key share one underlying call. Errors are not cached. The work
// directory is not part of the key: energies depend only on the structure
// and sequence.
type Cached struct {
	next  energy.Oracle
	memo  *runutil.LRU[string, float64]
	group singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

var _ energy.Oracle = (*Cached)(nil)

// NewCached wraps next with an LRU of the given capacity (0 picks the
// runutil default).
func NewCached(next energy.Oracle, capacity int) *Cached {
	return &Cached{next: next, memo: runutil.NewLRU[string, float64](capacity)}
}

func cacheKey(dotBracket, sequence string) string {
	return sequence + "\x00" + dotBracket
}

func (c *Cached) Energy(ctx context.Context, dotBracket, sequence, workDir string) (float64, error) {
	key := cacheKey(dotBracket, sequence)
	if e, ok := c.memo.Get(key); ok {
		c.hits.Add(1)
		return e, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		// double-check: another flight may have filled it
		if e, ok := c.memo.Get(key); ok {
			c.hits.Add(1)
			return e, nil
		}
		c.misses.Add(1)
		e, err := c.next.Energy(ctx, dotBracket, sequence, workDir)
		if err != nil {
			return 0.0, err
		}
		c.memo.Put(key, e)
		return e, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

// Stats returns hit and miss counts since creation.
func (c *Cached) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len reports the number of memoised energies.
func (c *Cached) Len() int { return c.memo.Len() }
