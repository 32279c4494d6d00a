package ticker

import (
	"context"
	"fmt"
	"strings"

	"stock-news-agents/internal/logger"
)

const defaultIndustry = "General Industry"

var fallbackIndustry = map[string]string{
	"aapl": "Consumer Electronics",
	"msft": "Software",
	"nvda": "Semiconductors",
	"tsla": "Automobiles",
	"amzn": "E-Commerce",
	"goog": "Internet Services",
	"meta": "Social Media",
	"7203": "Automobiles",
	"6758": "Consumer Electronics",
	"9432": "Telecom",
}

// InferIndustry returns a short industry label for a ticker. Unresolvable
// tickers land on the generic label so industry retrieval always has a
// query.
func (r *Resolver) InferIndustry(ctx context.Context, ticker string) string {
	normalized := strings.ToLower(strings.TrimSpace(ticker))
	if label, ok := fallbackIndustry[normalized]; ok {
		return label
	}

	system := "You map a ticker to a short industry label. Reply with 1-3 English words only."
	user := fmt.Sprintf("Ticker: %s\nReturn only the industry label.", ticker)
	out, err := r.completer.Complete(ctx, system, user)
	if err != nil {
		logger.Warn(ctx, "industry inference failed", "ticker", ticker, "error", err.Error())
		return defaultIndustry
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return defaultIndustry
	}
	return out
}
