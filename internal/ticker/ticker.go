package ticker

import (
	"context"
	"fmt"
	"strings"

	"stock-news-agents/internal/interfaces"
	"stock-news-agents/internal/logger"
)

// Well-known mappings answered without a model call. Dual-listed names
// resolve per market through fallbackByMarket first.
var fallbackTicker = map[string]string{
	"apple":     "AAPL",
	"alphabet":  "GOOGL",
	"google":    "GOOGL",
	"microsoft": "MSFT",
	"nvidia":    "NVDA",
	"tesla":     "TSLA",
	"amazon":    "AMZN",
	"meta":      "META",
	"toyota":    "TM",
	"sony":      "SONY",
	"ntt":       "NTT",
}

var fallbackByMarket = map[string]map[string]string{
	"toyota":   {"US": "TM", "JP": "7203"},
	"sony":     {"US": "SONY", "JP": "6758"},
	"ntt":      {"US": "NTT", "JP": "9432"},
	"nintendo": {"US": "NTDOY", "JP": "7974"},
	"honda":    {"US": "HMC", "JP": "7267"},
	"softbank": {"US": "SFTBY", "JP": "9984"},
}

var fallbackCompany = map[string]string{
	"aapl":  "Apple",
	"googl": "Alphabet",
	"goog":  "Alphabet",
	"msft":  "Microsoft",
	"nvda":  "NVIDIA",
	"tsla":  "Tesla",
	"amzn":  "Amazon",
	"meta":  "Meta",
	"7203":  "Toyota",
	"6758":  "Sony",
	"9432":  "NTT",
	"tm":    "Toyota",
	"sony":  "Sony",
	"ntt":   "NTT",
	"ntdoy": "Nintendo",
	"7974":  "Nintendo",
	"hmc":   "Honda",
	"7267":  "Honda",
	"sftby": "SoftBank",
	"9984":  "SoftBank",
}

// Resolver maps between company names and tickers, using the static tables
// first and a chat model for everything else. Model failures resolve to the
// empty string, never an error.
type Resolver struct {
	completer interfaces.Completer
}

func NewResolver(completer interfaces.Completer) *Resolver {
	return &Resolver{completer: completer}
}

// InferTicker returns the ticker for a company on a market, or "" when the
// name is empty and nothing can resolve it.
func (r *Resolver) InferTicker(ctx context.Context, companyName, market string) string {
	name := strings.TrimSpace(companyName)
	if name == "" {
		return ""
	}
	key := strings.ToLower(name)
	marketKey := strings.ToUpper(strings.TrimSpace(market))
	if byMarket, ok := fallbackByMarket[key]; ok {
		if sym, ok := byMarket[marketKey]; ok {
			return sym
		}
		return byMarket["US"]
	}
	if sym, ok := fallbackTicker[key]; ok {
		return sym
	}

	system := "You map a company name to its stock ticker. " +
		"If a company is listed in both US and JP, return the ticker for the given Market. " +
		"For JP, return the numeric ticker only. For US, return the ticker only. " +
		"Return ONLY the ticker symbol. No punctuation, no exchange suffix."
	user := fmt.Sprintf("Company: %s\nMarket: %s\nReturn only the ticker.", name, marketKey)
	out, err := r.completer.Complete(ctx, system, user)
	if err != nil {
		logger.Warn(ctx, "ticker inference failed", "company", name, "error", err.Error())
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

// InferCompanyName returns the company name for a ticker, or "" when it
// cannot be resolved.
func (r *Resolver) InferCompanyName(ctx context.Context, ticker, market string) string {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return ""
	}
	if name, ok := fallbackCompany[strings.ToLower(symbol)]; ok {
		return name
	}

	system := "You map a stock ticker to its company name. Return ONLY the company name. No extra text."
	user := fmt.Sprintf("Ticker: %s\nMarket: %s\nReturn only the company name.", symbol, market)
	out, err := r.completer.Complete(ctx, system, user)
	if err != nil {
		logger.Warn(ctx, "company name inference failed", "ticker", symbol, "error", err.Error())
		return ""
	}
	return strings.TrimSpace(out)
}

// NormalizeTickerForMarket re-resolves a known ticker against the target
// market, so a US symbol for a dual-listed company maps to its JP code and
// vice versa. Unknown symbols pass through unchanged.
func (r *Resolver) NormalizeTickerForMarket(ctx context.Context, ticker, market string) string {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return ""
	}
	company, ok := fallbackCompany[strings.ToLower(symbol)]
	if !ok {
		return symbol
	}
	if mapped := r.InferTicker(ctx, company, market); mapped != "" {
		return mapped
	}
	return symbol
}
