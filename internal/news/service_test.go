package news

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"stock-news-agents/internal/types"
)

type fakeCache struct {
	exactHits   []types.CacheHit
	exactErr    error
	simHits     []types.CacheHit
	simErr      error
	putErr      error
	putCalls    int
	putContents []string
	exactCalls  int
	simCalls    int
}

func (f *fakeCache) Put(ctx context.Context, content string, meta types.CacheMetadata) error {
	f.putCalls++
	f.putContents = append(f.putContents, content)
	return f.putErr
}

func (f *fakeCache) SimilarityQuery(ctx context.Context, text string, k int) ([]types.CacheHit, error) {
	f.simCalls++
	return f.simHits, f.simErr
}

func (f *fakeCache) ExactQuery(ctx context.Context, filter types.CacheFilter) ([]types.CacheHit, error) {
	f.exactCalls++
	return f.exactHits, f.exactErr
}

func (f *fakeCache) Reset() error             { return nil }
func (f *fakeCache) SizeBytes() (int64, error) { return 0, nil }

type fakeFetcher struct {
	rounds  [][]types.NewsItem
	err     error
	calls   int
	queries []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, req types.SearchRequest) ([]types.NewsItem, error) {
	f.queries = append(f.queries, req.Query)
	idx := f.calls
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if idx < len(f.rounds) {
		return f.rounds[idx], nil
	}
	return nil, nil
}

type fakeRewriter struct {
	out   string
	err   error
	calls int
}

func (f *fakeRewriter) Rewrite(ctx context.Context, query string, direction types.Direction, companyName, industry string) (string, error) {
	f.calls++
	return f.out, f.err
}

func item(n int) types.NewsItem {
	return types.NewsItem{
		Title:   fmt.Sprintf("Title %d", n),
		Link:    fmt.Sprintf("https://example.com/%d", n),
		Snippet: fmt.Sprintf("Snippet %d.", n),
	}
}

func items(ns ...int) []types.NewsItem {
	out := make([]types.NewsItem, 0, len(ns))
	for _, n := range ns {
		out = append(out, item(n))
	}
	return out
}

func request(limit int) types.RetrievalRequest {
	return types.RetrievalRequest{
		Ticker:      "AAPL",
		WeekStart:   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Direction:   types.DirectionCompany,
		CompanyName: "Apple",
		Limit:       limit,
	}
}

func TestExactCacheShortCircuits(t *testing.T) {
	cache := &fakeCache{
		exactHits: []types.CacheHit{
			{Content: "cached snippet", Metadata: types.CacheMetadata{Title: "Cached", Link: "https://example.com/c"}},
		},
	}
	fetcher := &fakeFetcher{}
	rewriter := &fakeRewriter{}
	svc := NewService(cache, fetcher, rewriter, 0.62, nil)

	got := svc.Retrieve(context.Background(), request(5))

	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].Title != "Cached" || got[0].Snippet != "cached snippet" {
		t.Errorf("unexpected item: %+v", got[0])
	}
	if fetcher.calls != 0 {
		t.Errorf("expected no fetch after exact hit, got %d calls", fetcher.calls)
	}
	if cache.simCalls != 0 {
		t.Errorf("expected no similarity lookup after exact hit, got %d", cache.simCalls)
	}
	if cache.putCalls != 0 {
		t.Errorf("expected no write-back on cache hit, got %d puts", cache.putCalls)
	}
}

func TestSimilarityThresholdGate(t *testing.T) {
	hit := func(score float64) types.CacheHit {
		return types.CacheHit{
			Content:  "snippet",
			Metadata: types.CacheMetadata{Title: "Near", Link: "https://example.com/near"},
			Score:    score,
		}
	}

	t.Run("top hit below threshold discards everything", func(t *testing.T) {
		cache := &fakeCache{simHits: []types.CacheHit{hit(0.61)}}
		fetcher := &fakeFetcher{rounds: [][]types.NewsItem{items(1)}}
		svc := NewService(cache, fetcher, nil, 0.62, nil)

		got := svc.Retrieve(context.Background(), request(1))
		if len(got) != 1 || got[0].Title != "Title 1" {
			t.Fatalf("expected only fetched item, got %+v", got)
		}
		if fetcher.calls != 1 {
			t.Errorf("expected 1 fetch, got %d", fetcher.calls)
		}
	})

	t.Run("top hit at threshold is accepted", func(t *testing.T) {
		cache := &fakeCache{simHits: []types.CacheHit{hit(0.62)}}
		fetcher := &fakeFetcher{}
		svc := NewService(cache, fetcher, nil, 0.62, nil)

		got := svc.Retrieve(context.Background(), request(1))
		if len(got) != 1 || got[0].Title != "Near" {
			t.Fatalf("expected cached item, got %+v", got)
		}
		if fetcher.calls != 0 {
			t.Errorf("expected no fetch when hit satisfies limit, got %d", fetcher.calls)
		}
	})

	t.Run("weaker trailing hits are dropped individually", func(t *testing.T) {
		strong := hit(0.9)
		weak := hit(0.5)
		weak.Metadata.Link = "https://example.com/weak"
		cache := &fakeCache{simHits: []types.CacheHit{strong, weak}}
		fetcher := &fakeFetcher{rounds: [][]types.NewsItem{items(1)}}
		svc := NewService(cache, fetcher, nil, 0.62, nil)

		got := svc.Retrieve(context.Background(), request(2))
		if len(got) != 2 {
			t.Fatalf("expected 2 items, got %d", len(got))
		}
		if got[0].Link != "https://example.com/near" {
			t.Errorf("expected strong hit first, got %s", got[0].Link)
		}
		if got[1].Title != "Title 1" {
			t.Errorf("expected fetched item second, got %s", got[1].Title)
		}
	})
}

func TestSimilarityDateRefilter(t *testing.T) {
	hit := func(link, published string) types.CacheHit {
		return types.CacheHit{
			Content:  "snippet",
			Metadata: types.CacheMetadata{Title: link, Link: link, Published: published},
			Score:    0.9,
		}
	}
	cache := &fakeCache{simHits: []types.CacheHit{
		hit("in-window", "2024-03-05"),
		hit("no-date", ""),
		hit("bad-date", "not a date"),
		hit("outside", "2024-02-01"),
	}}
	svc := NewService(cache, &fakeFetcher{}, nil, 0.62, nil)

	got := svc.Retrieve(context.Background(), request(2))

	if len(got) != 2 {
		t.Fatalf("expected 2 survivors, got %d: %+v", len(got), got)
	}
	if got[0].Link != "in-window" {
		t.Errorf("expected in-window hit kept, got %s", got[0].Link)
	}
	if got[1].Link != "no-date" {
		t.Errorf("expected undated hit kept, got %s", got[1].Link)
	}
}

func TestFetchMergeDedup(t *testing.T) {
	// Round 1 repeats one link; merged output keeps first occurrence.
	round1 := []types.NewsItem{item(1), item(2), item(1), item(3)}
	fetcher := &fakeFetcher{rounds: [][]types.NewsItem{round1}}
	cache := &fakeCache{}
	rewriter := &fakeRewriter{out: ""}
	svc := NewService(cache, fetcher, rewriter, 0.62, nil)

	got := svc.Retrieve(context.Background(), request(3))

	if len(got) != 3 {
		t.Fatalf("expected 3 deduped items, got %d", len(got))
	}
	for i, want := range []string{"Title 1", "Title 2", "Title 3"} {
		if got[i].Title != want {
			t.Errorf("item %d: expected %s, got %s", i, want, got[i].Title)
		}
	}
	// Write-back keeps all 4 fetched records, duplicate included.
	if cache.putCalls != 4 {
		t.Errorf("expected 4 write-backs, got %d", cache.putCalls)
	}
}

func TestTitleDedupWhenLinkMissing(t *testing.T) {
	a := types.NewsItem{Title: "Same headline", Snippet: "first"}
	b := types.NewsItem{Title: "Same headline", Snippet: "second"}
	fetcher := &fakeFetcher{rounds: [][]types.NewsItem{{a, b}}}
	svc := NewService(&fakeCache{}, fetcher, nil, 0.62, nil)

	got := svc.Retrieve(context.Background(), request(5))

	if len(got) != 1 {
		t.Fatalf("expected title-keyed dedup to 1 item, got %d", len(got))
	}
	if got[0].Snippet != "first" {
		t.Errorf("expected first occurrence kept, got %q", got[0].Snippet)
	}
}

func TestRewriteSecondRound(t *testing.T) {
	fetcher := &fakeFetcher{rounds: [][]types.NewsItem{items(1, 2, 3), items(3, 4, 5)}}
	cache := &fakeCache{}
	rewriter := &fakeRewriter{out: "Apple earnings outlook"}
	svc := NewService(cache, fetcher, rewriter, 0.62, nil)

	got := svc.Retrieve(context.Background(), request(5))

	if rewriter.calls != 1 {
		t.Fatalf("expected 1 rewrite, got %d", rewriter.calls)
	}
	if fetcher.calls != 2 {
		t.Fatalf("expected 2 fetch rounds, got %d", fetcher.calls)
	}
	if fetcher.queries[1] != "Apple earnings outlook" {
		t.Errorf("second round used query %q", fetcher.queries[1])
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 merged items, got %d", len(got))
	}
	// All 6 fetched records written back, the cross-round duplicate too.
	if cache.putCalls != 6 {
		t.Errorf("expected 6 write-backs, got %d", cache.putCalls)
	}
}

func TestRewriteSkippedWhenLimitMet(t *testing.T) {
	fetcher := &fakeFetcher{rounds: [][]types.NewsItem{items(1, 2, 3, 4, 5)}}
	rewriter := &fakeRewriter{out: "never used"}
	svc := NewService(&fakeCache{}, fetcher, rewriter, 0.62, nil)

	got := svc.Retrieve(context.Background(), request(5))

	if rewriter.calls != 0 {
		t.Errorf("expected no rewrite when round 1 fills the limit, got %d", rewriter.calls)
	}
	if len(got) != 5 {
		t.Errorf("expected 5 items, got %d", len(got))
	}
}

func TestRewriteDegradations(t *testing.T) {
	cases := []struct {
		name     string
		rewriter *fakeRewriter
	}{
		{"error", &fakeRewriter{err: errors.New("model down")}},
		{"empty", &fakeRewriter{out: ""}},
		{"unchanged", &fakeRewriter{out: "AAPL Apple"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := &fakeFetcher{rounds: [][]types.NewsItem{items(1)}}
			svc := NewService(&fakeCache{}, fetcher, tc.rewriter, 0.62, nil)

			got := svc.Retrieve(context.Background(), request(5))

			if fetcher.calls != 1 {
				t.Errorf("expected second round skipped, got %d fetches", fetcher.calls)
			}
			if len(got) != 1 {
				t.Errorf("expected round 1 result returned, got %d items", len(got))
			}
		})
	}
}

func TestCollaboratorFailuresDegrade(t *testing.T) {
	t.Run("broken cache reads still fetch", func(t *testing.T) {
		cache := &fakeCache{
			exactErr: errors.New("store corrupt"),
			simErr:   errors.New("store corrupt"),
		}
		fetcher := &fakeFetcher{rounds: [][]types.NewsItem{items(1, 2)}}
		svc := NewService(cache, fetcher, nil, 0.62, nil)

		got := svc.Retrieve(context.Background(), request(2))
		if len(got) != 2 {
			t.Fatalf("expected fetched items despite cache errors, got %d", len(got))
		}
	})

	t.Run("fetch failure yields cache survivors only", func(t *testing.T) {
		cache := &fakeCache{simHits: []types.CacheHit{
			{Content: "s", Metadata: types.CacheMetadata{Title: "Near", Link: "l"}, Score: 0.9},
		}}
		fetcher := &fakeFetcher{err: errors.New("network down")}
		svc := NewService(cache, fetcher, nil, 0.62, nil)

		got := svc.Retrieve(context.Background(), request(3))
		if len(got) != 1 || got[0].Title != "Near" {
			t.Fatalf("expected the cached survivor, got %+v", got)
		}
	})

	t.Run("write-back failure does not affect the result", func(t *testing.T) {
		cache := &fakeCache{putErr: errors.New("disk full")}
		fetcher := &fakeFetcher{rounds: [][]types.NewsItem{items(1, 2)}}
		svc := NewService(cache, fetcher, nil, 0.62, nil)

		got := svc.Retrieve(context.Background(), request(2))
		if len(got) != 2 {
			t.Fatalf("expected full result despite put errors, got %d", len(got))
		}
	})
}

func TestItemsWithoutIdentitySkipped(t *testing.T) {
	blank := types.NewsItem{Snippet: "no title no link"}
	fetcher := &fakeFetcher{rounds: [][]types.NewsItem{{blank, item(1)}}}
	svc := NewService(&fakeCache{}, fetcher, nil, 0.62, nil)

	got := svc.Retrieve(context.Background(), request(5))

	if len(got) != 1 || got[0].Title != "Title 1" {
		t.Fatalf("expected identity-less item skipped, got %+v", got)
	}
}

func TestBuildQuery(t *testing.T) {
	cases := []struct {
		name      string
		ticker    string
		direction types.Direction
		industry  string
		company   string
		want      string
	}{
		{"industry verbatim", "AAPL", types.DirectionIndustry, "Consumer Electronics", "Apple", "Consumer Electronics"},
		{"company with name", "AAPL", types.DirectionCompany, "", "Apple", "AAPL Apple"},
		{"company without name", "AAPL", types.DirectionCompany, "", "", "AAPL"},
		{"company name whitespace", "AAPL", types.DirectionCompany, "", "  ", "AAPL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildQuery(tc.ticker, tc.direction, tc.industry, tc.company)
			if got != tc.want {
				t.Errorf("BuildQuery = %q, want %q", got, tc.want)
			}
		})
	}
}
