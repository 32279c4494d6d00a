package summarize

import (
	"strings"

	"stock-news-agents/internal/types"
)

// Sentence boundaries for the heuristic fallback, covering Latin and CJK
// terminators.
var sentenceEnders = []rune{'.', '!', '?', '。', '！', '？'}

// Fallback builds a neutral summary from the snippet alone, used whenever
// the model path fails. It never errs. A snippet with no sentences leaves
// all three slots empty; the title stays in its own field.
func Fallback(item types.NewsItem) types.NewsSummary {
	sentences := splitSentences(item.Snippet)
	for len(sentences) < 3 {
		sentences = append(sentences, "")
	}
	return types.NewsSummary{
		Title:      item.Title,
		Summary:    sentences,
		Sentiment:  "neutral",
		Score:      0,
		Link:       item.Link,
		Language:   item.Language,
		SourceType: item.SourceType,
	}
}

func splitSentences(text string) []string {
	isEnder := func(r rune) bool {
		for _, e := range sentenceEnders {
			if r == e {
				return true
			}
		}
		return false
	}
	parts := strings.FieldsFunc(text, isEnder)
	sentences := make([]string, 0, 3)
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		sentences = append(sentences, p)
		if len(sentences) == 3 {
			break
		}
	}
	return sentences
}
