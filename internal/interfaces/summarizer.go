package interfaces

import (
	"context"

	"stock-news-agents/internal/types"
)

// Summarizer produces a scored three-sentence summary for one item. Failures
// are recovered by the caller with a heuristic fallback, never propagated.
type Summarizer interface {
	Summarize(ctx context.Context, item types.NewsItem) (types.NewsSummary, error)
}
