package news

import (
	"context"
	"fmt"
	"strings"

	"stock-news-agents/internal/interfaces"
	"stock-news-agents/internal/types"
)

const rewriteSystem = "You are a financial news search assistant. " +
	"Rewrite the query to fetch more relevant financial news. " +
	"Return ONLY the new query string, with no quotes and no explanation."

// LLMRewriter asks a chat model for a sharper search query when the first
// fetch round comes back thin.
type LLMRewriter struct {
	completer interfaces.Completer
}

func NewLLMRewriter(completer interfaces.Completer) *LLMRewriter {
	return &LLMRewriter{completer: completer}
}

func (r *LLMRewriter) Rewrite(ctx context.Context, query string, direction types.Direction, companyName, industry string) (string, error) {
	var scope string
	if direction == types.DirectionIndustry {
		scope = fmt.Sprintf("industry news about %q", industry)
	} else {
		scope = fmt.Sprintf("news about the company %q", companyName)
	}
	user := fmt.Sprintf("Original query: %s\nTarget: %s\nRewrite the query.", query, scope)
	out, err := r.completer.Complete(ctx, rewriteSystem, user)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(strings.Trim(strings.TrimSpace(out), `"'`))
	return out, nil
}
