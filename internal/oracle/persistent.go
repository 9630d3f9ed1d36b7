package oracle

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/dgraph-io/badger/v4"

	"irfold/core/energy"
)

// StoreConfig configures the on-disk energy store.
type StoreConfig struct {
	// Path is the badger directory; ignored when InMemory is set.
	Path     string
	InMemory bool
	// Namespace separates energies from different oracles sharing a store.
	Namespace string
	Logger    *slog.Logger
}

// Persistent caches energies in a badger database so repeated runs skip the
// oracle. Values are stored as IEEE-754 bits.
type Persistent struct {
	next energy.Oracle
	db   *badger.DB
	ns   string
	log  *slog.Logger
}

var _ energy.Oracle = (*Persistent)(nil)

type badgerLogger struct{ logger *slog.Logger }

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}
func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}
func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}
func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenPersistent opens (creating if needed) the store and wraps next.
// Callers must Close it.
func OpenPersistent(next energy.Oracle, cfg StoreConfig) (*Persistent, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("energy store: path is required")
	}
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create energy store %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger.With("component", "badger")})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open energy store: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Persistent{next: next, db: db, ns: cfg.Namespace, log: log}, nil
}

func (p *Persistent) key(dotBracket, sequence string) []byte {
	return []byte(p.ns + "\x00" + cacheKey(dotBracket, sequence))
}

func (p *Persistent) Energy(ctx context.Context, dotBracket, sequence, workDir string) (float64, error) {
	key := p.key(dotBracket, sequence)
	var (
		e     float64
		found bool
	)
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt energy record (%d bytes)", len(val))
			}
			e = math.Float64frombits(binary.BigEndian.Uint64(val))
			found = true
			return nil
		})
	})
	if err != nil {
		p.log.Warn("energy store read failed", "err", err)
	}
	if found {
		return e, nil
	}

	e, err = p.next.Energy(ctx, dotBracket, sequence, workDir)
	if err != nil {
		return 0, err
	}
	val := binary.BigEndian.AppendUint64(nil, math.Float64bits(e))
	if err := p.db.Update(func(txn *badger.Txn) error { return txn.Set(key, val) }); err != nil {
		p.log.Warn("energy store write failed", "err", err)
	}
	return e, nil
}

// Close flushes and closes the store.
func (p *Persistent) Close() error { return p.db.Close() }
