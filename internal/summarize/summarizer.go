package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"stock-news-agents/internal/interfaces"
	"stock-news-agents/internal/types"
)

const summarySystem = `You are a financial news analyst. Summarize the article and judge its sentiment for investors.
Respond with ONLY a JSON object, no markdown fences, in this exact shape:
{"title": "...", "summary": ["sentence 1", "sentence 2", "sentence 3"], "sentiment": "positive", "score": 1}
Rules:
- "summary" holds exactly three short sentences.
- "sentiment" is "positive" or "negative".
- "score" is 1 when sentiment is positive, -1 when negative.`

// LLMSummarizer produces scored summaries through a chat model. Responses
// that fail validation surface as errors so the caller can fall back.
type LLMSummarizer struct {
	completer interfaces.Completer
}

func NewLLMSummarizer(completer interfaces.Completer) *LLMSummarizer {
	return &LLMSummarizer{completer: completer}
}

type summaryPayload struct {
	Title     string   `json:"title"`
	Summary   []string `json:"summary"`
	Sentiment string   `json:"sentiment"`
	Score     int      `json:"score"`
}

func (s *LLMSummarizer) Summarize(ctx context.Context, item types.NewsItem) (types.NewsSummary, error) {
	user := fmt.Sprintf("Title: %s\nContent: %s", item.Title, item.Snippet)
	raw, err := s.completer.Complete(ctx, summarySystem, user)
	if err != nil {
		return types.NewsSummary{}, fmt.Errorf("summarize completion: %w", err)
	}
	payload, err := parseSummaryPayload(raw)
	if err != nil {
		return types.NewsSummary{}, err
	}
	title := strings.TrimSpace(payload.Title)
	if title == "" {
		title = item.Title
	}
	return types.NewsSummary{
		Title:      title,
		Summary:    payload.Summary,
		Sentiment:  payload.Sentiment,
		Score:      payload.Score,
		Link:       item.Link,
		Language:   item.Language,
		SourceType: item.SourceType,
	}, nil
}

// parseSummaryPayload extracts and validates the JSON object in a model
// response. Text around the object is tolerated; a malformed or
// out-of-contract payload is an error.
func parseSummaryPayload(raw string) (summaryPayload, error) {
	var payload summaryPayload
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return payload, fmt.Errorf("no JSON object in summary response")
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return payload, fmt.Errorf("decode summary response: %w", err)
	}

	sentences := make([]string, 0, 3)
	for _, sent := range payload.Summary {
		sent = strings.TrimSpace(sent)
		if sent == "" {
			continue
		}
		sentences = append(sentences, sent)
		if len(sentences) == 3 {
			break
		}
	}
	if len(sentences) == 0 {
		return payload, fmt.Errorf("summary response has no sentences")
	}
	for len(sentences) < 3 {
		sentences = append(sentences, "")
	}
	payload.Summary = sentences

	payload.Sentiment = strings.ToLower(strings.TrimSpace(payload.Sentiment))
	switch {
	case payload.Sentiment == "positive" && payload.Score == 1:
	case payload.Sentiment == "negative" && payload.Score == -1:
	default:
		return payload, fmt.Errorf("summary response sentiment %q / score %d out of contract", payload.Sentiment, payload.Score)
	}
	return payload, nil
}
