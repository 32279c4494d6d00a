package types

import (
	"strings"
	"time"
)

// Direction selects whether a retrieval targets company-specific or
// industry-specific news.
type Direction string

const (
	DirectionCompany  Direction = "company"
	DirectionIndustry Direction = "industry"
)

// NewsItem is a single discovered article, normalized from a raw upstream
// record. Items are never mutated after creation; enrichment builds new
// values.
type NewsItem struct {
	Title      string `json:"title"`
	Link       string `json:"link"`
	Snippet    string `json:"snippet"`
	Language   string `json:"language"`
	SourceType string `json:"source_type"`
	Published  string `json:"published"` // raw upstream date string
}

// DedupKey returns the identity used when merging result sets: link when
// present, title otherwise. Empty means the item has no identity and is
// skipped by merges.
func (n NewsItem) DedupKey() string {
	if n.Link != "" {
		return n.Link
	}
	return n.Title
}

// NewsSummary is the scored summary of one NewsItem.
type NewsSummary struct {
	Title      string   `json:"title"`
	Summary    []string `json:"summary"` // exactly 3 sentences
	Sentiment  string   `json:"sentiment"`
	Score      int      `json:"score"` // 1 positive, -1 negative, 0 fallback
	Link       string   `json:"link"`
	Language   string   `json:"language"`
	SourceType string   `json:"source_type"`
}

// RetrievalRequest is the orchestrator input for one direction of one week.
type RetrievalRequest struct {
	Ticker      string
	WeekStart   time.Time
	Direction   Direction
	Industry    string
	CompanyName string
	Limit       int
}

// SearchRequest is the wire-level request handed to a news fetch capability.
type SearchRequest struct {
	Query     string    `json:"query"`
	Limit     int       `json:"limit"`
	Languages []string  `json:"languages"`
	StartDate time.Time `json:"-"`
	EndDate   time.Time `json:"-"`
}

// CacheMetadata tags a persisted cache record with the request that produced
// it.
type CacheMetadata struct {
	Query      string
	Direction  Direction
	Title      string
	Link       string
	Language   string
	SourceType string
	Published  string
	WeekStart  string // ISO date
	WeekEnd    string // ISO date
}

// CacheFilter is an exact-equality metadata filter.
type CacheFilter struct {
	Query     string
	Direction Direction
	WeekStart string // ISO date
}

// CacheHit is one record returned from a cache lookup. Score is the
// similarity relevance in [0,1]; exact-match lookups leave it zero.
type CacheHit struct {
	Content  string
	Metadata CacheMetadata
	Score    float64
}

// Item rebuilds a NewsItem from a cached record.
func (h CacheHit) Item() NewsItem {
	return NewsItem{
		Title:      h.Metadata.Title,
		Link:       h.Metadata.Link,
		Snippet:    h.Content,
		Language:   h.Metadata.Language,
		SourceType: h.Metadata.SourceType,
		Published:  h.Metadata.Published,
	}
}

// PriceRow is one daily close.
type PriceRow struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is an ascending-by-date close series plus its origin URL.
type PriceSeries struct {
	Rows   []PriceRow `json:"rows"`
	Source string     `json:"source"`
}

// publishedLayouts covers RSS pubDate variants (RFC 1123 family) and the ISO
// forms the cache writes back.
var publishedLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	"2006-01-02",
}

// ParsePublished parses a raw published string into a date. The boolean is
// false when the value is empty or matches no known layout; callers treat
// such records as unverifiable.
func ParsePublished(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SameOrBetween reports whether day falls inside [start, end] by calendar
// date, ignoring time of day.
func SameOrBetween(day, start, end time.Time) bool {
	toDate := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	d := toDate(day)
	return !d.Before(toDate(start)) && !d.After(toDate(end))
}
