package types

import (
	"testing"
	"time"
)

func TestDedupKey(t *testing.T) {
	withLink := NewsItem{Title: "T", Link: "https://example.com/a"}
	if withLink.DedupKey() != "https://example.com/a" {
		t.Errorf("expected link key, got %q", withLink.DedupKey())
	}
	titleOnly := NewsItem{Title: "T"}
	if titleOnly.DedupKey() != "T" {
		t.Errorf("expected title key, got %q", titleOnly.DedupKey())
	}
	blank := NewsItem{Snippet: "s"}
	if blank.DedupKey() != "" {
		t.Errorf("expected empty key, got %q", blank.DedupKey())
	}
}

func TestParsePublished(t *testing.T) {
	valid := []string{
		"Mon, 04 Mar 2024 10:30:00 GMT",
		"Mon, 04 Mar 2024 10:30:00 +0900",
		"Mon, 4 Mar 2024 10:30:00 GMT",
		"04 Mar 24 10:30 GMT",
		"2024-03-04T10:30:00Z",
		"2024-03-04",
		"  2024-03-04  ",
	}
	for _, raw := range valid {
		day, ok := ParsePublished(raw)
		if !ok {
			t.Errorf("ParsePublished(%q) failed", raw)
			continue
		}
		if day.Year() != 2024 || day.Month() != time.March || day.Day() != 4 {
			t.Errorf("ParsePublished(%q) = %v", raw, day)
		}
	}

	for _, raw := range []string{"", "   ", "yesterday", "03/04/2024"} {
		if _, ok := ParsePublished(raw); ok {
			t.Errorf("ParsePublished(%q) should fail", raw)
		}
	}
}

func TestSameOrBetween(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		day  time.Time
		want bool
	}{
		{time.Date(2024, 3, 4, 23, 59, 0, 0, time.UTC), true},  // start day, late hour
		{time.Date(2024, 3, 10, 0, 0, 1, 0, time.UTC), true},   // end day
		{time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC), true},   // mid-week
		{time.Date(2024, 3, 3, 23, 59, 0, 0, time.UTC), false}, // day before
		{time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), false},  // day after
	}
	for _, tc := range cases {
		if got := SameOrBetween(tc.day, start, end); got != tc.want {
			t.Errorf("SameOrBetween(%v) = %v, want %v", tc.day, got, tc.want)
		}
	}
}

func TestCacheHitItem(t *testing.T) {
	hit := CacheHit{
		Content: "snippet text",
		Metadata: CacheMetadata{
			Title:      "T",
			Link:       "L",
			Language:   "en",
			SourceType: "media",
			Published:  "2024-03-04",
		},
	}
	item := hit.Item()
	if item.Snippet != "snippet text" || item.Title != "T" || item.Link != "L" {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.Language != "en" || item.SourceType != "media" || item.Published != "2024-03-04" {
		t.Errorf("metadata not carried: %+v", item)
	}
}
