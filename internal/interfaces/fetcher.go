package interfaces

import (
	"context"

	"stock-news-agents/internal/types"
)

// NewsFetcher is the live news search capability. Implementations normalize
// raw upstream records into NewsItems and may return partial results; a
// transport failure is an error the caller degrades from.
type NewsFetcher interface {
	Fetch(ctx context.Context, req types.SearchRequest) ([]types.NewsItem, error)
}

// PriceFetcher returns the daily close series for a ticker on a market.
type PriceFetcher interface {
	Fetch(ctx context.Context, ticker, market string) (types.PriceSeries, error)
}

// QueryRewriter produces an alternative query string when direct results are
// thin. An empty string or an error both mean "no rewrite".
type QueryRewriter interface {
	Rewrite(ctx context.Context, query string, direction types.Direction, companyName, industry string) (string, error)
}
