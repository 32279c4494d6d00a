package summarize

import (
	"context"
	"sync"

	"stock-news-agents/internal/interfaces"
	"stock-news-agents/internal/logger"
	"stock-news-agents/internal/types"
)

const defaultConcurrency = 6

// Pool summarizes item batches with a bounded number of concurrent model
// calls. Output order always matches input order and every slot is filled,
// with the heuristic fallback standing in for failed calls.
type Pool struct {
	summarizer  interfaces.Summarizer
	concurrency int
}

func NewPool(summarizer interfaces.Summarizer, concurrency int) *Pool {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Pool{summarizer: summarizer, concurrency: concurrency}
}

func (p *Pool) SummarizeAll(ctx context.Context, items []types.NewsItem) []types.NewsSummary {
	if len(items) == 0 {
		return []types.NewsSummary{}
	}
	results := make([]types.NewsSummary, len(items))
	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(i int, item types.NewsItem) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			summary, err := p.summarizer.Summarize(ctx, item)
			if err != nil {
				logger.Warn(ctx, "summary failed, using fallback", "title", item.Title, "error", err.Error())
				summary = Fallback(item)
			}
			results[i] = summary
		}(i, item)
	}
	wg.Wait()
	return results
}

// Aggregate reduces a batch to a single sentiment label and mean score. A
// strictly positive mean is "positive", strictly negative is "negative",
// everything else, the empty batch included, is "neutral".
func Aggregate(summaries []types.NewsSummary) (string, float64) {
	if len(summaries) == 0 {
		return "neutral", 0
	}
	total := 0
	for _, s := range summaries {
		total += s.Score
	}
	mean := float64(total) / float64(len(summaries))
	switch {
	case mean > 0:
		return "positive", mean
	case mean < 0:
		return "negative", mean
	default:
		return "neutral", mean
	}
}
