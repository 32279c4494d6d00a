package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"stock-news-agents/internal/interfaces"
	"stock-news-agents/internal/llm"
	"stock-news-agents/internal/logger"
	"stock-news-agents/internal/news"
	"stock-news-agents/internal/newsfetch"
	"stock-news-agents/internal/ragcache"
	"stock-news-agents/internal/store"
	"stock-news-agents/internal/summarize"
	"stock-news-agents/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes environment, logger, and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeCache opens the persisted semantic cache backing retrieval
func initializeCache(ctx context.Context, cfg *store.Config) (*ragcache.Cache, error) {
	embedder := llm.NewEmbedder(cfg)
	cache, err := ragcache.Open(cfg.CacheDir(), embedder)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to open news cache", err, "dir", cfg.CacheDir())
		return nil, err
	}
	if size, err := cache.SizeBytes(); err == nil {
		logger.Info(ctx, "News cache opened", "dir", cfg.CacheDir(), "size_bytes", size)
	}
	if err := cache.GC(); err != nil {
		logger.Warn(ctx, "Cache value log GC failed", "error", err)
	}
	return cache, nil
}

// initializeFetcher selects the live news source per configuration
func initializeFetcher(ctx context.Context, cfg *store.Config, completer interfaces.Completer) interfaces.NewsFetcher {
	if cfg.News.Fetcher == "REMOTE" {
		logger.Info(ctx, "Using remote news fetcher", "url", cfg.News.RemoteURL)
		return newsfetch.NewRemoteFetcher(cfg.News.RemoteURL, 30*time.Second)
	}
	expander := newsfetch.NewExpander(completer, cfg.News.ExpansionPerLang)
	return newsfetch.NewFetcher(20*time.Second, expander, newsfetch.NewScraper(20*time.Second))
}

// initializeService wires the retrieval service over cache and fetcher
func initializeService(cfg *store.Config, cache interfaces.SemanticCache, fetcher interfaces.NewsFetcher, completer interfaces.Completer) *news.Service {
	rewriter := news.NewLLMRewriter(completer)
	return news.NewService(cache, fetcher, rewriter, cfg.Cache.RelevanceThreshold, cfg.News.Languages)
}

// initializeSummaryPool builds the bounded summarization pool
func initializeSummaryPool(cfg *store.Config) *summarize.Pool {
	summarizer := summarize.NewLLMSummarizer(llm.NewSummaryCompleter(cfg))
	return summarize.NewPool(summarizer, cfg.Summary.Concurrency)
}
