package price

import (
	"time"

	"stock-news-agents/internal/types"
)

// FilterRange keeps rows within the trailing window named by rangeKey ("3m",
// "1y", anything else means 5y), anchored at the newest row.
func FilterRange(rows []types.PriceRow, rangeKey string) []types.PriceRow {
	if len(rows) == 0 {
		return rows
	}
	newest := rows[len(rows)-1].Date
	var start time.Time
	switch rangeKey {
	case "3m":
		start = newest.AddDate(0, 0, -90)
	case "1y":
		start = newest.AddDate(0, 0, -365)
	default:
		start = newest.AddDate(0, 0, -365*5)
	}

	out := make([]types.PriceRow, 0, len(rows))
	for _, row := range rows {
		if !row.Date.Before(start) {
			out = append(out, row)
		}
	}
	return out
}

// WeeklyClose resamples ascending daily rows to one row per Friday-anchored
// week, keeping the last close observed in each week.
func WeeklyClose(rows []types.PriceRow) []types.PriceRow {
	out := make([]types.PriceRow, 0, len(rows)/5+1)
	for _, row := range rows {
		friday := weekFriday(row.Date)
		if n := len(out); n > 0 && out[n-1].Date.Equal(friday) {
			out[n-1].Close = row.Close
			continue
		}
		out = append(out, types.PriceRow{Date: friday, Close: row.Close})
	}
	return out
}

// weekFriday returns the Friday ending the week containing day (Saturday
// rolls forward to the next week's Friday, matching a W-FRI resample).
func weekFriday(day time.Time) time.Time {
	offset := (int(time.Friday) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset)
}
