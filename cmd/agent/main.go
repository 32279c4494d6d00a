package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"stock-news-agents/internal/interfaces"
	"stock-news-agents/internal/llm"
	"stock-news-agents/internal/logger"
	"stock-news-agents/internal/pipeline"
	"stock-news-agents/internal/price"
	"stock-news-agents/internal/ticker"
	"stock-news-agents/internal/trace"
	"stock-news-agents/internal/types"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config file")
		symbol     = flag.String("ticker", "", "stock ticker, e.g. AAPL or 7203")
		company    = flag.String("company", "", "company name, resolved to a ticker when -ticker is empty")
		market     = flag.String("market", "", "US or JP, overrides config")
		week       = flag.String("week", "", "week start date YYYY-MM-DD, defaults to the current week's Monday")
		prices     = flag.String("prices", "", "print the weekly close series for a range (3m, 1y, 5y) instead of news")
		clearCache = flag.Bool("clear-cache", false, "reset the news cache and exit")
	)
	flag.Parse()

	if err := initializeSystem(); err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	defer func() {
		_ = trace.Shutdown(ctx)
		_ = logger.Shutdown(ctx)
	}()

	cfg, err := loadConfig(ctx, *configPath)
	if err != nil {
		os.Exit(1)
	}
	if *market != "" {
		cfg.Market = *market
		if err := cfg.Validate(); err != nil {
			log.Fatal(err)
		}
	}

	if *clearCache {
		cache, err := initializeCache(ctx, cfg)
		if err != nil {
			os.Exit(1)
		}
		defer cache.Close()
		if err := cache.Reset(); err != nil {
			logger.ErrorWithErr(ctx, "Cache reset failed", err)
			os.Exit(1)
		}
		fmt.Println("cache cleared")
		return
	}

	completer := llm.NewCompleter(cfg)
	resolver := ticker.NewResolver(completer)

	sym := *symbol
	if sym == "" && *company != "" {
		sym = resolver.InferTicker(ctx, *company, cfg.Market)
	}
	if sym == "" {
		log.Fatal("either -ticker or a resolvable -company is required")
	}
	sym = resolver.NormalizeTickerForMarket(ctx, sym, cfg.Market)

	if *prices != "" {
		printPrices(ctx, sym, cfg.Market, *prices)
		return
	}

	weekStart, err := resolveWeek(*week)
	if err != nil {
		log.Fatal(err)
	}

	companyName := *company
	if companyName == "" {
		companyName = resolver.InferCompanyName(ctx, sym, cfg.Market)
	}
	industry := resolver.InferIndustry(ctx, sym)

	cache, err := initializeCache(ctx, cfg)
	if err != nil {
		os.Exit(1)
	}
	defer cache.Close()

	fetcher := initializeFetcher(ctx, cfg, completer)
	service := initializeService(cfg, cache, fetcher, completer)
	pool := initializeSummaryPool(cfg)

	result := pipeline.New(service, pool, cfg.News.Limit).Run(ctx, sym, weekStart, companyName, industry)
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}

// resolveWeek parses the flag or falls back to the Monday of the current
// week.
func resolveWeek(raw string) (time.Time, error) {
	if raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid -week %q: %w", raw, err)
		}
		return day, nil
	}
	now := time.Now().UTC()
	offset := (int(now.Weekday()) + 6) % 7 // days since Monday
	monday := now.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC), nil
}

func printPrices(ctx context.Context, sym, market, rangeKey string) {
	var fetcher interfaces.PriceFetcher = price.NewStooqFetcher(20 * time.Second)
	series, err := fetcher.Fetch(ctx, sym, market)
	if err != nil {
		logger.ErrorWithErr(ctx, "Price fetch failed", err, "ticker", sym)
		os.Exit(1)
	}
	weekly := price.WeeklyClose(price.FilterRange(series.Rows, rangeKey))
	out, err := json.MarshalIndent(types.PriceSeries{Rows: weekly, Source: series.Source}, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}
