package news

import (
	"strings"

	"stock-news-agents/internal/types"
)

// BuildQuery derives the base search string for a request. Industry searches
// use the industry label verbatim; company searches combine ticker and
// company name when the name is known.
func BuildQuery(ticker string, direction types.Direction, industry, companyName string) string {
	if direction == types.DirectionIndustry {
		return industry
	}
	companyName = strings.TrimSpace(companyName)
	if companyName != "" {
		return strings.TrimSpace(ticker + " " + companyName)
	}
	return ticker
}
