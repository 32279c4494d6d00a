package news

import (
	"context"
	"time"

	"stock-news-agents/internal/interfaces"
	"stock-news-agents/internal/logger"
	"stock-news-agents/internal/types"
)

const isoDate = "2006-01-02"

// Service retrieves one week of news for one direction, preferring cached
// material over live fetches. Every collaborator failure degrades to a
// smaller result set; Retrieve never returns an error.
type Service struct {
	cache     interfaces.SemanticCache
	fetcher   interfaces.NewsFetcher
	rewriter  interfaces.QueryRewriter
	threshold float64
	languages []string
}

// NewService wires a retrieval service. rewriter may be nil, which disables
// the second fetch round.
func NewService(cache interfaces.SemanticCache, fetcher interfaces.NewsFetcher, rewriter interfaces.QueryRewriter, threshold float64, languages []string) *Service {
	if threshold <= 0 {
		threshold = 0.62
	}
	if len(languages) == 0 {
		languages = []string{"zh", "ja", "en"}
	}
	return &Service{
		cache:     cache,
		fetcher:   fetcher,
		rewriter:  rewriter,
		threshold: threshold,
		languages: languages,
	}
}

// Retrieve runs the full lookup pipeline for req:
//
//  1. exact cache lookup on (query, direction, week), returned as-is on hit
//  2. similarity lookup, accepted only when the best hit clears the
//     relevance threshold, then re-filtered to the week window
//  3. live fetch, merged after the cached survivors with first-seen dedup
//  4. one query rewrite and second fetch when still under the limit
//  5. write-back of everything fetched live
func (s *Service) Retrieve(ctx context.Context, req types.RetrievalRequest) []types.NewsItem {
	op := logger.StartOperation(ctx, "news_retrieve",
		"ticker", req.Ticker,
		"direction", string(req.Direction),
		"week_start", req.WeekStart.Format(isoDate),
	)
	ctx = op.GetContext()

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	query := BuildQuery(req.Ticker, req.Direction, req.Industry, req.CompanyName)
	weekStart := req.WeekStart
	weekEnd := weekStart.AddDate(0, 0, 6)

	// Exact hits mean this precise request was already answered; no date
	// re-filter is needed because the records were written under this week.
	exact := s.exactHits(ctx, query, req.Direction, weekStart)
	if len(exact) > 0 {
		items := truncate(exact, limit)
		logger.Retrieval(ctx, query, string(req.Direction), "cache_exact", len(exact), 0, len(items))
		op.End("source", "cache_exact", "returned", len(items))
		return items
	}

	cached := s.similarityHits(ctx, query, limit, weekStart, weekEnd)
	if len(cached) >= limit {
		items := truncate(cached, limit)
		logger.Retrieval(ctx, query, string(req.Direction), "cache_similarity", len(cached), 0, len(items))
		op.End("source", "cache_similarity", "returned", len(items))
		return items
	}

	merged := make([]types.NewsItem, 0, limit)
	seen := make(map[string]struct{}, limit)
	merged = mergeInto(merged, seen, cached, limit)

	round1 := s.fetchRound(ctx, query, limit, weekStart, weekEnd)
	merged = mergeInto(merged, seen, round1, limit)

	var round2 []types.NewsItem
	if len(merged) < limit {
		if rewritten := s.rewriteQuery(ctx, query, req); rewritten != "" {
			round2 = s.fetchRound(ctx, rewritten, limit, weekStart, weekEnd)
			merged = mergeInto(merged, seen, round2, limit)
		}
	}

	// Everything fetched live goes back to the cache, duplicates included;
	// the fetch already scoped each item to this week.
	s.writeBack(ctx, query, req.Direction, weekStart, weekEnd, round1, round2)

	fetched := len(round1) + len(round2)
	logger.Retrieval(ctx, query, string(req.Direction), "fetch", len(cached), fetched, len(merged))
	op.End("source", "fetch", "cache_hits", len(cached), "fetched", fetched, "returned", len(merged))
	return merged
}

func (s *Service) exactHits(ctx context.Context, query string, direction types.Direction, weekStart time.Time) []types.NewsItem {
	hits, err := s.cache.ExactQuery(ctx, types.CacheFilter{
		Query:     query,
		Direction: direction,
		WeekStart: weekStart.Format(isoDate),
	})
	if err != nil {
		logger.Warn(ctx, "exact cache lookup failed, treating as empty", "error", err.Error())
		return nil
	}
	items := make([]types.NewsItem, 0, len(hits))
	for _, h := range hits {
		items = append(items, h.Item())
	}
	return items
}

// similarityHits returns cached items for semantically close queries. The
// whole hit set is discarded unless the best hit clears the threshold, so a
// weak nearest neighbor never leaks stale news into the result. Surviving
// hits are re-filtered to the requested week; records with no published date
// are kept, records with an unparsable one are not.
func (s *Service) similarityHits(ctx context.Context, query string, limit int, weekStart, weekEnd time.Time) []types.NewsItem {
	hits, err := s.cache.SimilarityQuery(ctx, query, limit)
	if err != nil {
		logger.Warn(ctx, "similarity cache lookup failed, treating as empty", "error", err.Error())
		return nil
	}
	if len(hits) == 0 || hits[0].Score < s.threshold {
		return nil
	}
	items := make([]types.NewsItem, 0, len(hits))
	for _, h := range hits {
		if h.Score < s.threshold {
			continue
		}
		if h.Metadata.Published != "" {
			day, ok := types.ParsePublished(h.Metadata.Published)
			if !ok || !types.SameOrBetween(day, weekStart, weekEnd) {
				continue
			}
		}
		items = append(items, h.Item())
	}
	return items
}

func (s *Service) fetchRound(ctx context.Context, query string, limit int, weekStart, weekEnd time.Time) []types.NewsItem {
	items, err := s.fetcher.Fetch(ctx, types.SearchRequest{
		Query:     query,
		Limit:     limit,
		Languages: s.languages,
		StartDate: weekStart,
		EndDate:   weekEnd,
	})
	if err != nil {
		logger.Warn(ctx, "news fetch failed, continuing with empty round", "query", query, "error", err.Error())
		return nil
	}
	return items
}

func (s *Service) rewriteQuery(ctx context.Context, query string, req types.RetrievalRequest) string {
	if s.rewriter == nil {
		return ""
	}
	rewritten, err := s.rewriter.Rewrite(ctx, query, req.Direction, req.CompanyName, req.Industry)
	if err != nil {
		logger.Warn(ctx, "query rewrite failed, skipping second round", "error", err.Error())
		return ""
	}
	if rewritten == "" || rewritten == query {
		return ""
	}
	logger.Debug(ctx, "query rewritten", "original", query, "rewritten", rewritten)
	return rewritten
}

func (s *Service) writeBack(ctx context.Context, query string, direction types.Direction, weekStart, weekEnd time.Time, rounds ...[]types.NewsItem) {
	for _, round := range rounds {
		for _, item := range round {
			err := s.cache.Put(ctx, item.Snippet, types.CacheMetadata{
				Query:      query,
				Direction:  direction,
				Title:      item.Title,
				Link:       item.Link,
				Language:   item.Language,
				SourceType: item.SourceType,
				Published:  item.Published,
				WeekStart:  weekStart.Format(isoDate),
				WeekEnd:    weekEnd.Format(isoDate),
			})
			if err != nil {
				logger.Warn(ctx, "cache write failed, dropping record", "title", item.Title, "error", err.Error())
			}
		}
	}
}

// mergeInto appends items whose dedup key is unseen, first occurrence wins,
// stopping at limit.
func mergeInto(dst []types.NewsItem, seen map[string]struct{}, items []types.NewsItem, limit int) []types.NewsItem {
	for _, item := range items {
		if len(dst) >= limit {
			break
		}
		key := item.DedupKey()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, item)
	}
	return dst
}

func truncate(items []types.NewsItem, limit int) []types.NewsItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
