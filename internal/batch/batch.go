// Package batch folds many FASTA records concurrently and hands results
// back in input order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"irfold/core/engine"
	"irfold/internal/fasta"
	"irfold/internal/staging"
)

// Folder is satisfied by *engine.Engine.
type Folder interface {
	Fold(ctx context.Context, sequence string, cfg engine.Config) (engine.Result, error)
}

// Config controls the runner.
type Config struct {
	// Jobs is the number of concurrent folds (>=1).
	Jobs int
	// StageRoot is where per-record work dirs are created; empty means the
	// system temp dir. The engine config's WorkDir is ignored.
	StageRoot string
	KeepDirs  bool
	// ContinueOnError reports per-record failures through Item.Err instead
	// of stopping the run.
	ContinueOnError bool
	Logger          *slog.Logger
}

// Item is one folded record.
type Item struct {
	Index  int
	Record fasta.Record
	Result engine.Result
	Err    error
}

// Source feeds records to emit until exhausted or emit fails.
type Source func(ctx context.Context, emit func(fasta.Record) error) error

// Records is a Source over an in-memory slice.
func Records(recs []fasta.Record) Source {
	return func(ctx context.Context, emit func(fasta.Record) error) error {
		for _, r := range recs {
			if err := emit(r); err != nil {
				return err
			}
		}
		return nil
	}
}

// Files is a Source streaming every record of each FASTA file in turn.
func Files(paths ...string) Source {
	return func(ctx context.Context, emit func(fasta.Record) error) error {
		for _, p := range paths {
			if err := fasta.Each(ctx, p, emit); err != nil {
				return err
			}
		}
		return nil
	}
}

// Run folds every record from src with cfg and calls visit once per record
// in input order. It returns the first error from the source, from visit,
// or (without ContinueOnError) from a fold.
func Run(ctx context.Context, f Folder, bc Config, cfg engine.Config, src Source, visit func(Item) error) error {
	if bc.Jobs < 1 {
		bc.Jobs = 1
	}
	log := bc.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(bc.Jobs)

	results := make(chan Item, bc.Jobs*2)
	collected := make(chan error, 1)
	var visitErr error
	go func() {
		collected <- collect(results, func(it Item) error {
			if err := visit(it); err != nil {
				visitErr = err
				cancel()
				return err
			}
			return nil
		})
	}()

	fold := func(idx int, rec fasta.Record) error {
		item := Item{Index: idx, Record: rec}
		dir, err := staging.New(bc.StageRoot, bc.KeepDirs)
		if err != nil {
			return err
		}
		c := cfg
		c.WorkDir = dir.Path
		item.Result, item.Err = f.Fold(gctx, rec.Seq, c)
		if cerr := dir.Close(); cerr != nil {
			log.Warn("removing work dir", "dir", dir.Path, "err", cerr)
		}
		if item.Err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if !bc.ContinueOnError {
				return fmt.Errorf("%s: %w", rec.ID, item.Err)
			}
			log.Warn("fold failed", "id", rec.ID, "err", item.Err)
		}
		select {
		case results <- item:
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	}

	next := 0
	err := src(gctx, func(rec fasta.Record) error {
		if err := gctx.Err(); err != nil {
			return err
		}
		idx := next
		next++
		g.Go(func() error { return fold(idx, rec) })
		return nil
	})
	werr := g.Wait()
	close(results)
	cerr := <-collected

	switch {
	case visitErr != nil:
		return visitErr
	case werr != nil:
		return werr
	case err != nil:
		return err
	case cerr != nil:
		return cerr
	}
	return ctx.Err()
}

// collect reorders items by Index and passes them to visit. After a visit
// error it drains the channel and returns that error.
func collect(in <-chan Item, visit func(Item) error) error {
	pending := make(map[int]Item)
	next := 0
	var verr error
	for it := range in {
		if verr != nil {
			continue
		}
		pending[it.Index] = it
		for {
			p, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if err := visit(p); err != nil {
				verr = err
				break
			}
		}
	}
	if verr == nil && len(pending) > 0 {
		return errors.New("batch: results missing for some records")
	}
	return verr
}
