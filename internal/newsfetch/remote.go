package newsfetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stock-news-agents/internal/logger"
	"stock-news-agents/internal/trace"
	"stock-news-agents/internal/types"
)

// rawItem is the wire shape a remote news tool returns per article.
type rawItem struct {
	Title      string `json:"title"`
	Link       string `json:"link"`
	Snippet    string `json:"snippet"`
	Language   string `json:"language"`
	SourceType string `json:"source_type"`
	Published  string `json:"published"`
}

// RemoteFetcher calls an out-of-process news search tool over HTTP JSON. The
// response decode is deliberately tolerant: a single object is wrapped into a
// one-element list, and anything that is neither a list nor an object yields
// an empty result with a diagnostic rather than an error.
type RemoteFetcher struct {
	url    string
	client *http.Client
}

func NewRemoteFetcher(url string, timeout time.Duration) *RemoteFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoteFetcher{url: url, client: &http.Client{Timeout: timeout}}
}

func (f *RemoteFetcher) Fetch(ctx context.Context, req types.SearchRequest) ([]types.NewsItem, error) {
	ctx, span := trace.StartSpan(ctx, "news-remote-fetch")
	defer span.End()

	payload := map[string]any{
		"query":     req.Query,
		"limit":     req.Limit,
		"languages": req.Languages,
	}
	if !req.StartDate.IsZero() {
		payload["start_date"] = req.StartDate.Format("2006-01-02")
	}
	if !req.EndDate.IsZero() {
		payload["end_date"] = req.EndDate.Format("2006-01-02")
	}
	bb, _ := json.Marshal(payload)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", f.url, bytes.NewReader(bb))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("news tool http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	raws, ok := decodeItems(ctx, body)
	if !ok {
		return nil, nil
	}

	items := make([]types.NewsItem, 0, len(raws))
	for _, r := range raws {
		items = append(items, types.NewsItem{
			Title:      r.Title,
			Link:       r.Link,
			Snippet:    cleanSnippet(r.Snippet),
			Language:   r.Language,
			SourceType: r.SourceType,
			Published:  r.Published,
		})
	}
	logger.Info(ctx, "Remote news fetch completed", "query", req.Query, "items", len(items))
	return items, nil
}

// decodeItems accepts a JSON list of items or a single item object. Any other
// shape is logged and treated as empty.
func decodeItems(ctx context.Context, body []byte) ([]rawItem, bool) {
	var list []rawItem
	if err := json.Unmarshal(body, &list); err == nil {
		return list, true
	}

	var single rawItem
	if err := json.Unmarshal(body, &single); err == nil {
		return []rawItem{single}, true
	}

	preview := string(body)
	if len(preview) > 200 {
		preview = preview[:200]
	}
	logger.Warn(ctx, "Unexpected news tool response shape", "body", preview)
	return nil, false
}
