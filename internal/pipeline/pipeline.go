package pipeline

import (
	"context"
	"time"

	"stock-news-agents/internal/logger"
	"stock-news-agents/internal/news"
	"stock-news-agents/internal/summarize"
	"stock-news-agents/internal/types"
)

// Result is the weekly news report for one ticker: summarized company and
// industry coverage, per-group sentiment aggregates, and the overall
// sentiment across both groups.
type Result struct {
	Ticker            string              `json:"ticker"`
	WeekStart         string              `json:"week_start"`
	CompanyName       string              `json:"company_name"`
	Industry          string              `json:"industry"`
	CompanyNews       []types.NewsSummary `json:"company_news"`
	IndustryNews      []types.NewsSummary `json:"industry_news"`
	CompanySentiment  string              `json:"company_sentiment"`
	CompanyScore      float64             `json:"company_score"`
	IndustrySentiment string              `json:"industry_sentiment"`
	IndustryScore     float64             `json:"industry_score"`
	Sentiment         string              `json:"sentiment"`
	Score             float64             `json:"score"`
}

// Pipeline runs the two retrieval directions in sequence and fans each batch
// out to the summary pool. The stages are sequential so the industry round
// can reuse whatever the company round wrote to the cache.
type Pipeline struct {
	service *news.Service
	pool    *summarize.Pool
	limit   int
}

func New(service *news.Service, pool *summarize.Pool, limit int) *Pipeline {
	if limit <= 0 {
		limit = 10
	}
	return &Pipeline{service: service, pool: pool, limit: limit}
}

func (p *Pipeline) Run(ctx context.Context, ticker string, weekStart time.Time, companyName, industry string) Result {
	op := logger.StartOperation(ctx, "news_pipeline", "ticker", ticker, "week_start", weekStart.Format("2006-01-02"))
	ctx = op.GetContext()

	companyItems := p.service.Retrieve(ctx, types.RetrievalRequest{
		Ticker:      ticker,
		WeekStart:   weekStart,
		Direction:   types.DirectionCompany,
		Industry:    industry,
		CompanyName: companyName,
		Limit:       p.limit,
	})
	companyNews := p.pool.SummarizeAll(ctx, companyItems)

	industryItems := p.service.Retrieve(ctx, types.RetrievalRequest{
		Ticker:      ticker,
		WeekStart:   weekStart,
		Direction:   types.DirectionIndustry,
		Industry:    industry,
		CompanyName: companyName,
		Limit:       p.limit,
	})
	industryNews := p.pool.SummarizeAll(ctx, industryItems)

	companySentiment, companyScore := summarize.Aggregate(companyNews)
	industrySentiment, industryScore := summarize.Aggregate(industryNews)

	all := make([]types.NewsSummary, 0, len(companyNews)+len(industryNews))
	all = append(all, companyNews...)
	all = append(all, industryNews...)
	sentiment, score := summarize.Aggregate(all)

	op.End("company_news", len(companyNews), "industry_news", len(industryNews), "sentiment", sentiment)
	return Result{
		Ticker:            ticker,
		WeekStart:         weekStart.Format("2006-01-02"),
		CompanyName:       companyName,
		Industry:          industry,
		CompanyNews:       companyNews,
		IndustryNews:      industryNews,
		CompanySentiment:  companySentiment,
		CompanyScore:      companyScore,
		IndustrySentiment: industrySentiment,
		IndustryScore:     industryScore,
		Sentiment:         sentiment,
		Score:             score,
	}
}
