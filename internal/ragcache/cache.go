package ragcache

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"

	"stock-news-agents/internal/interfaces"
	"stock-news-agents/internal/logger"
	"stock-news-agents/internal/types"
)

// Cache is the persisted semantic cache over BadgerHold. It is best-effort by
// contract: a failed write is retried once after a full reset and then given
// up silently; failed reads surface as errors the orchestrator treats as
// empty.
type Cache struct {
	mu       sync.Mutex
	db       *badgerDB
	embedder interfaces.Embedder
}

// Open opens (or creates) the cache at dir.
func Open(dir string, embedder interfaces.Embedder) (*Cache, error) {
	db, err := openBadgerDB(dir)
	if err != nil {
		return nil, err
	}
	return &Cache{db: db, embedder: embedder}, nil
}

func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}

// Put persists one record. Embedding failures are returned to the caller;
// storage failures trigger one reset-and-retry and are then swallowed.
func (c *Cache) Put(ctx context.Context, content string, meta types.CacheMetadata) error {
	embedding, err := c.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed cache content: %w", err)
	}

	rec := &Record{
		ID:         uuid.New().String(),
		Content:    content,
		Embedding:  embedding,
		Query:      meta.Query,
		Direction:  string(meta.Direction),
		Title:      meta.Title,
		Link:       meta.Link,
		Language:   meta.Language,
		SourceType: meta.SourceType,
		Published:  meta.Published,
		WeekStart:  meta.WeekStart,
		WeekEnd:    meta.WeekEnd,
		CreatedAt:  time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	upsertErr := c.db.store.Upsert(rec.ID, rec)
	if upsertErr == nil {
		return nil
	}
	logger.Warn(ctx, "Cache write failed, retrying after reset", "error", upsertErr)

	if err := c.resetLocked(); err != nil {
		logger.Warn(ctx, "Cache reset failed, dropping record", "error", err)
		return nil
	}
	if err := c.db.store.Upsert(rec.ID, rec); err != nil {
		logger.Warn(ctx, "Cache write failed after reset, dropping record", "error", err)
	}
	return nil
}

// SimilarityQuery embeds text and returns the top k records ranked by cosine
// relevance in [0,1], highest first.
func (c *Cache) SimilarityQuery(ctx context.Context, text string, k int) ([]types.CacheHit, error) {
	query, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed similarity query: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var records []Record
	if err := c.db.store.Find(&records, nil); err != nil {
		return nil, fmt.Errorf("scan cache records: %w", err)
	}

	hits := make([]types.CacheHit, 0, len(records))
	for _, rec := range records {
		score := relevance(query, rec.Embedding)
		hits = append(hits, types.CacheHit{
			Content:  rec.Content,
			Metadata: recordMeta(rec),
			Score:    score,
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// ExactQuery returns records whose metadata equals the filter, no ranking.
func (c *Cache) ExactQuery(ctx context.Context, filter types.CacheFilter) ([]types.CacheHit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var records []Record
	q := badgerhold.Where("Query").Eq(filter.Query).
		And("Direction").Eq(string(filter.Direction)).
		And("WeekStart").Eq(filter.WeekStart)
	if err := c.db.store.Find(&records, q); err != nil {
		return nil, fmt.Errorf("exact cache query: %w", err)
	}

	hits := make([]types.CacheHit, 0, len(records))
	for _, rec := range records {
		hits = append(hits, types.CacheHit{Content: rec.Content, Metadata: recordMeta(rec)})
	}
	return hits, nil
}

// Reset clears all records by wiping the directory and reopening.
func (c *Cache) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resetLocked()
}

func (c *Cache) resetLocked() error {
	dir := c.db.dir
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close cache for reset: %w", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove cache directory: %w", err)
	}
	db, err := openBadgerDB(dir)
	if err != nil {
		return err
	}
	c.db = db
	return nil
}

// SizeBytes reports the on-disk footprint of the cache.
func (c *Cache) SizeBytes() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.sizeBytes(), nil
}

// GC compacts the value log. Safe to call on an idle cache; badger refuses
// concurrent GC runs on its own.
func (c *Cache) GC() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.runGC()
}

func recordMeta(rec Record) types.CacheMetadata {
	return types.CacheMetadata{
		Query:      rec.Query,
		Direction:  types.Direction(rec.Direction),
		Title:      rec.Title,
		Link:       rec.Link,
		Language:   rec.Language,
		SourceType: rec.SourceType,
		Published:  rec.Published,
		WeekStart:  rec.WeekStart,
		WeekEnd:    rec.WeekEnd,
	}
}

// relevance maps cosine similarity from [-1,1] onto the [0,1] scale the
// relevance threshold is expressed in.
func relevance(a, b []float32) float64 {
	cos, ok := cosine(a, b)
	if !ok {
		return 0
	}
	return (1 + cos) / 2
}

func cosine(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
