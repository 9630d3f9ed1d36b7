package oracle

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irfold/core/energy"
)

type countingOracle struct {
	calls atomic.Int64
	fail  atomic.Bool
}

func (c *countingOracle) Energy(_ context.Context, db, _, _ string) (float64, error) {
	c.calls.Add(1)
	if c.fail.Load() {
		return 0, errors.New("oracle down")
	}
	return -float64(len(db)), nil
}

func TestCachedMemoises(t *testing.T) {
	next := &countingOracle{}
	c := NewCached(next, 0)
	ctx := context.Background()

	for range 3 {
		e, err := c.Energy(ctx, "(((...)))", "GGGAAACCC", "a")
		require.NoError(t, err)
		require.Equal(t, -9.0, e)
	}
	// a different work dir hits the same entry
	_, err := c.Energy(ctx, "(((...)))", "GGGAAACCC", "b")
	require.NoError(t, err)
	require.EqualValues(t, 1, next.calls.Load())

	_, err = c.Energy(ctx, ".........", "GGGAAACCC", "a")
	require.NoError(t, err)
	require.EqualValues(t, 2, next.calls.Load())

	hits, misses := c.Stats()
	require.EqualValues(t, 3, hits)
	require.EqualValues(t, 2, misses)
	require.Equal(t, 2, c.Len())
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	next := &countingOracle{}
	next.fail.Store(true)
	c := NewCached(next, 0)
	_, err := c.Energy(context.Background(), "(...)", "GAAAC", "")
	require.Error(t, err)
	next.fail.Store(false)
	e, err := c.Energy(context.Background(), "(...)", "GAAAC", "")
	require.NoError(t, err)
	require.Equal(t, -5.0, e)
	require.EqualValues(t, 2, next.calls.Load())
}

func TestCachedConcurrent(t *testing.T) {
	next := &countingOracle{}
	c := NewCached(next, 0)
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := c.Energy(context.Background(), "((....))", "GGAAAACC", "")
			assert.NoError(t, err)
			assert.Equal(t, -8.0, e)
		}()
	}
	wg.Wait()
	require.Equal(t, 1, c.Len())
	require.LessOrEqual(t, next.calls.Load(), int64(32))
}

func TestCachedBounded(t *testing.T) {
	next := &countingOracle{}
	c := NewCached(next, 1)
	ctx := context.Background()
	_, _ = c.Energy(ctx, "(...)", "GAAAC", "")
	_, _ = c.Energy(ctx, ".....", "GAAAC", "")
	_, _ = c.Energy(ctx, "(...)", "GAAAC", "")
	require.EqualValues(t, 3, next.calls.Load())
	require.Equal(t, 1, c.Len())
}

func TestCachedWrapsNearestNeighbour(t *testing.T) {
	c := NewCached(energy.NearestNeighbour{}, 0)
	e, err := c.Energy(context.Background(), "(((...)))", "GGGAAACCC", "")
	require.NoError(t, err)
	require.InDelta(t, -1.2, e, 1e-9)
}
