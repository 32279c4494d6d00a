package price

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"stock-news-agents/internal/logger"
	"stock-news-agents/internal/trace"
	"stock-news-agents/internal/types"
)

// StooqFetcher pulls daily close series from the Stooq CSV endpoint.
type StooqFetcher struct {
	client *http.Client
}

func NewStooqFetcher(timeout time.Duration) *StooqFetcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &StooqFetcher{client: &http.Client{Timeout: timeout}}
}

// buildSymbol maps a ticker and market onto Stooq's suffix scheme. Tickers
// already carrying a dot keep it, except ".T" which Stooq spells ".jp".
func buildSymbol(ticker, market string) string {
	raw := strings.ToLower(strings.TrimSpace(ticker))
	if strings.Contains(raw, ".") {
		if strings.HasSuffix(raw, ".t") {
			return raw[:len(raw)-2] + ".jp"
		}
		return raw
	}
	if strings.ToUpper(market) == "US" {
		return raw + ".us"
	}
	return raw + ".jp"
}

func (f *StooqFetcher) Fetch(ctx context.Context, ticker, market string) (types.PriceSeries, error) {
	ctx, span := trace.StartSpan(ctx, "price-fetch")
	defer span.End()

	symbol := buildSymbol(ticker, market)
	u := fmt.Sprintf("https://stooq.com/q/d/l/?s=%s&i=d", symbol)
	series := types.PriceSeries{Source: u}

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return series, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return series, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return series, fmt.Errorf("stooq http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return series, err
	}

	rows, err := parseCSV(strings.TrimSpace(string(body)))
	if err != nil {
		return series, err
	}
	series.Rows = rows
	logger.Info(ctx, "Price series fetched", "symbol", symbol, "rows", len(rows))
	return series, nil
}

// parseCSV reads a Stooq daily export, with or without the header line. Rows
// with an unparsable date or close are dropped; output is ascending by date.
func parseCSV(text string) ([]types.PriceRow, error) {
	if text == "" {
		return nil, nil
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse stooq csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	dateCol, closeCol := 0, 4
	start := 0
	first := records[0]
	if len(first) > 0 && strings.EqualFold(first[0], "date") {
		start = 1
		for i, name := range first {
			switch strings.ToLower(name) {
			case "date":
				dateCol = i
			case "close":
				closeCol = i
			}
		}
	}

	rows := make([]types.PriceRow, 0, len(records)-start)
	for _, rec := range records[start:] {
		if len(rec) <= dateCol || len(rec) <= closeCol {
			continue
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(rec[dateCol]))
		if err != nil {
			continue
		}
		closeVal, err := strconv.ParseFloat(strings.TrimSpace(rec[closeCol]), 64)
		if err != nil {
			continue
		}
		rows = append(rows, types.PriceRow{Date: date, Close: closeVal})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}
