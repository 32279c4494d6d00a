package ragcache

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"
)

// Record is a persisted cache unit: the snippet text, its embedding, and the
// flattened request metadata badgerhold indexes for exact lookups.
type Record struct {
	ID         string `badgerhold:"key"`
	Content    string
	Embedding  []float32
	Query      string
	Direction  string
	Title      string
	Link       string
	Language   string
	SourceType string
	Published  string
	WeekStart  string
	WeekEnd    string
	CreatedAt  time.Time
}

// badgerDB manages the BadgerHold connection for the cache directory.
type badgerDB struct {
	dir   string
	store *badgerhold.Store
}

func openBadgerDB(dir string) (*badgerDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = dir
	options.ValueDir = dir
	options.Logger = nil // quiet badger's default logger, slog owns output

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &badgerDB{dir: dir, store: store}, nil
}

func (b *badgerDB) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}

// sizeBytes reports the LSM plus value-log footprint.
func (b *badgerDB) sizeBytes() int64 {
	if b.store == nil {
		return 0
	}
	lsm, vlog := b.store.Badger().Size()
	return lsm + vlog
}

// runGC rewrites value-log files that are at least half garbage, looping
// until badger reports nothing left to rewrite.
func (b *badgerDB) runGC() error {
	if b.store == nil {
		return nil
	}
	for {
		err := b.store.Badger().RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
