package interfaces

import (
	"context"

	"stock-news-agents/internal/types"
)

// SemanticCache is the persisted store of previously fetched news. Records
// carry the snippet text (embedded for similarity lookups) plus the request
// metadata that produced them. The cache is best-effort: callers treat read
// errors as empty and write errors as skippable.
type SemanticCache interface {
	// Put persists one record.
	Put(ctx context.Context, content string, meta types.CacheMetadata) error
	// SimilarityQuery returns up to k nearest records by content similarity,
	// highest relevance first, scores in [0,1].
	SimilarityQuery(ctx context.Context, text string, k int) ([]types.CacheHit, error)
	// ExactQuery returns records whose metadata equals the filter.
	ExactQuery(ctx context.Context, filter types.CacheFilter) ([]types.CacheHit, error)
	// Reset clears all records.
	Reset() error
	// SizeBytes reports the on-disk footprint.
	SizeBytes() (int64, error)
}
