package newsfetch

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"stock-news-agents/internal/interfaces"
	"stock-news-agents/internal/logger"
)

// Expander asks the LLM for short per-language query variants that widen a
// thin search. Failures degrade to no expansion.
type Expander struct {
	completer  interfaces.Completer
	maxPerLang int
}

func NewExpander(completer interfaces.Completer, maxPerLang int) *Expander {
	if maxPerLang <= 0 {
		maxPerLang = 8
	}
	return &Expander{completer: completer, maxPerLang: maxPerLang}
}

const expandSystem = "You generate concise search queries for financial news. " +
	`Return ONLY strict JSON: {"zh":[],"ja":[],"en":[]} with up to N items each.`

// Expand returns up to maxPerLang variants per requested language. The base
// query is not included in the result.
func (e *Expander) Expand(ctx context.Context, query string, languages []string) map[string][]string {
	if e == nil || e.completer == nil {
		return nil
	}

	var b strings.Builder
	b.WriteString("Base query: " + query + "\n")
	b.WriteString("Languages: " + strings.Join(languages, ", ") + "\n")
	b.WriteString("N=" + strconv.Itoa(e.maxPerLang) + "\n")
	b.WriteString("Each query should be a short phrase suitable for Google News search.\n")
	b.WriteString("Vary intents (price move, earnings, product, regulation, lawsuit, supply chain) without listing intents.\n")
	b.WriteString("Do not include explanations.")

	out, err := e.completer.Complete(ctx, expandSystem, b.String())
	if err != nil {
		logger.Warn(ctx, "Query expansion failed", "error", err)
		return nil
	}

	payload := extractJSONObject(out)
	if payload == "" {
		return nil
	}
	var parsed map[string][]string
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		logger.Warn(ctx, "Query expansion returned malformed JSON", "error", err)
		return nil
	}

	result := make(map[string][]string, len(languages))
	for _, lang := range languages {
		cleaned := make([]string, 0, e.maxPerLang)
		for _, v := range parsed[lang] {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			cleaned = append(cleaned, v)
			if len(cleaned) >= e.maxPerLang {
				break
			}
		}
		if len(cleaned) > 0 {
			result[lang] = cleaned
		}
	}
	logger.Debug(ctx, "Query variants generated", "query", query, "languages", len(result))
	return result
}

// extractJSONObject locates the first {...} span in model output, tolerating
// prose or code fences around it.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
