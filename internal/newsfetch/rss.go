package newsfetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"stock-news-agents/internal/logger"
	"stock-news-agents/internal/trace"
	"stock-news-agents/internal/types"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher searches Google News RSS per language, widening thin results with
// LLM query variants and falling back to an HTML scrape when RSS yields
// nothing at all.
type Fetcher struct {
	client   *http.Client
	parser   *gofeed.Parser
	expander *Expander
	scraper  *Scraper
}

// NewFetcher creates the RSS fetcher. expander and scraper may be nil to
// disable expansion and the scrape fallback.
func NewFetcher(timeout time.Duration, expander *Expander, scraper *Scraper) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		parser:   gofeed.NewParser(),
		expander: expander,
		scraper:  scraper,
	}
}

// Fetch runs the per-language bucket fill: each language gets a quota of
// limit/len(languages) (rounded up) served from the base query plus variants,
// then a second pass tops the list up from bucket overflow.
func (f *Fetcher) Fetch(ctx context.Context, req types.SearchRequest) ([]types.NewsItem, error) {
	ctx, span := trace.StartSpan(ctx, "news-rss-fetch")
	defer span.End()

	languages := req.Languages
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	perLang := (req.Limit + len(languages) - 1) / len(languages)
	if perLang < 1 {
		perLang = 1
	}

	var expansions map[string][]string
	if f.expander != nil {
		expansions = f.expander.Expand(ctx, req.Query, languages)
	}

	seen := map[string]bool{}
	buckets := map[string][]types.NewsItem{}
	collected := make([]types.NewsItem, 0, req.Limit)

	add := func(items []types.NewsItem, bucket []types.NewsItem) []types.NewsItem {
		for _, item := range items {
			key := item.DedupKey()
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			bucket = append(bucket, item)
		}
		return bucket
	}

	perFetch := req.Limit
	if perLang*3 > perFetch {
		perFetch = perLang * 3
	}

	for _, lang := range languages {
		var bucket []types.NewsItem
		variants := append([]string{req.Query}, expansions[lang]...)
		for _, q := range variants {
			items, err := f.searchRSS(ctx, q, lang, perFetch, req.StartDate, req.EndDate)
			if err != nil {
				logger.Warn(ctx, "RSS search failed", "query", q, "lang", lang, "error", err)
				continue
			}
			bucket = add(items, bucket)
			if len(bucket) >= perLang {
				break
			}
		}
		buckets[lang] = bucket
		if len(bucket) > perLang {
			collected = append(collected, bucket[:perLang]...)
		} else {
			collected = append(collected, bucket...)
		}
	}

	// Second pass: refill short buckets and drain overflow until limit.
	if len(collected) < req.Limit {
		for _, lang := range languages {
			bucket := buckets[lang]
			if len(bucket) < req.Limit {
				variants := append([]string{req.Query}, expansions[lang]...)
				for _, q := range variants {
					items, err := f.searchRSS(ctx, q, lang, perFetch, req.StartDate, req.EndDate)
					if err != nil {
						continue
					}
					bucket = add(items, bucket)
					if len(bucket) >= req.Limit {
						break
					}
				}
				buckets[lang] = bucket
			}
			for i := perLang; i < len(bucket); i++ {
				collected = append(collected, bucket[i])
				if len(collected) >= req.Limit {
					break
				}
			}
			if len(collected) >= req.Limit {
				break
			}
		}
	}

	if len(collected) == 0 && f.scraper != nil {
		logger.Info(ctx, "No items from RSS, trying HTML scrape fallback", "query", req.Query)
		scraped, err := f.scraper.Scrape(ctx, req.Query, req.Limit)
		if err != nil {
			logger.ErrorWithErr(ctx, "HTML scrape fallback failed", err, "query", req.Query)
		} else {
			collected = add(scraped, collected)
		}
	}

	if len(collected) > req.Limit {
		collected = collected[:req.Limit]
	}
	logger.Info(ctx, "News fetch completed", "query", req.Query, "items", len(collected))
	return collected, nil
}

// searchRSS fetches one Google News RSS page. When a week window is given,
// items with an unparsable or out-of-window pubDate are dropped.
func (f *Fetcher) searchRSS(ctx context.Context, query, lang string, maxResults int, start, end time.Time) ([]types.NewsItem, error) {
	loc := localeFor(lang)
	u := fmt.Sprintf("https://news.google.com/rss/search?q=%s&hl=%s&gl=%s&ceid=%s",
		url.QueryEscape(query), loc.HL, loc.GL, loc.CEID)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("google news rss http %d", resp.StatusCode)
	}

	feed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse rss feed: %w", err)
	}

	windowed := !start.IsZero() && !end.IsZero()
	items := make([]types.NewsItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if windowed {
			pub, ok := entryDate(entry)
			if !ok || !types.SameOrBetween(pub, start, end) {
				continue
			}
		}
		items = append(items, types.NewsItem{
			Title:      entry.Title,
			Link:       entry.Link,
			Snippet:    cleanSnippet(entry.Description),
			Language:   lang,
			SourceType: "media",
			Published:  entry.Published,
		})
		if len(items) >= maxResults {
			break
		}
	}
	logger.Debug(ctx, "RSS page parsed", "query", query, "lang", lang, "items", len(items))
	return items, nil
}

func entryDate(entry *gofeed.Item) (time.Time, bool) {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed, true
	}
	return types.ParsePublished(entry.Published)
}
