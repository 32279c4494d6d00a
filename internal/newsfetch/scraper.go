package newsfetch

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"stock-news-agents/internal/logger"
	"stock-news-agents/internal/types"
)

// Scraper is the last-resort news source: the Google News search page itself,
// scraped when the RSS endpoint returns nothing.
type Scraper struct {
	timeout time.Duration
}

func NewScraper(timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Scraper{timeout: timeout}
}

// Scrape collects up to maxItems articles for query from the English search
// page. Scraped results carry no usable publish date, so callers cannot
// window-filter them; they only serve the nothing-at-all case.
func (s *Scraper) Scrape(ctx context.Context, query string, maxItems int) ([]types.NewsItem, error) {
	articles := []types.NewsItem{}

	c := colly.NewCollector(
		colly.AllowedDomains("news.google.com"),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
	})

	c.OnHTML("article", func(e *colly.HTMLElement) {
		if len(articles) >= maxItems {
			return
		}

		title := strings.TrimSpace(e.ChildText("h3 a, h4 a, a.JtKRv"))
		if title == "" {
			return
		}
		href := e.ChildAttr("h3 a, h4 a, a.JtKRv", "href")
		if href == "" {
			return
		}
		link := e.Request.AbsoluteURL(href)
		published := e.ChildAttr("time", "datetime")

		articles = append(articles, types.NewsItem{
			Title:      title,
			Link:       link,
			Snippet:    title,
			Language:   "en",
			SourceType: "media",
			Published:  published,
		})
	})

	searchURL := "https://news.google.com/search?q=" + url.QueryEscape(query) + "&hl=en-US&gl=US&ceid=US:en"
	if err := c.Visit(searchURL); err != nil {
		return nil, err
	}
	c.Wait()

	logger.Info(ctx, "Google News scrape completed", "query", query, "articles", len(articles))
	return articles, nil
}
