package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"stock-news-agents/internal/logger"
	"stock-news-agents/internal/newsfetch"
	"stock-news-agents/internal/types"

	"github.com/joho/godotenv"
)

// fetchnews exercises the live RSS fetch path on its own, without the cache
// or any model calls. Useful for checking what a query actually returns.
func main() {
	var (
		query = flag.String("query", "AAPL", "search query")
		limit = flag.Int("limit", 10, "max items")
		langs = flag.String("langs", "zh,ja,en", "comma-separated languages")
	)
	flag.Parse()

	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	languages := strings.Split(*langs, ",")
	for i := range languages {
		languages[i] = strings.TrimSpace(languages[i])
	}

	fetcher := newsfetch.NewFetcher(20*time.Second, nil, nil)
	items, err := fetcher.Fetch(context.Background(), types.SearchRequest{
		Query:     *query,
		Limit:     *limit,
		Languages: languages,
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, item := range items {
		fmt.Printf("[%s] %s\n", item.Language, item.Title)
		fmt.Println(item.Link)
		fmt.Println(truncateRunes(item.Snippet, 120))
		fmt.Println(strings.Repeat("-", 60))
	}
}

// truncateRunes cuts on a rune boundary so CJK snippets never end in a
// mangled partial character.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
