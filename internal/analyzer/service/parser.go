package service

import (
	"strings"
	"time"

	"golang-stock-sentiment/internal/analyzer/dto"

	"github.com/shopspring/decimal"
)

// StockCodeWidth is the fixed width stock codes are zero-padded to.
const StockCodeWidth = 6

// tickLayouts are tried in order when parsing price timestamps.
var tickLayouts = []string{
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05Z07:00",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006.01.02 15:04",
	"2006.01.02",
}

// NormalizeStockCode trims a code and left-pads it with zeros to six characters.
// Empty, over-long and non-alphanumeric codes are rejected.
func NormalizeStockCode(code string) (string, bool) {
	code = strings.TrimSpace(code)
	// numeric codes round-tripped through a float column come back as "5930.0"
	code = strings.TrimSuffix(code, ".0")
	if code == "" || len(code) > StockCodeWidth {
		return "", false
	}
	for _, r := range code {
		if !(r >= '0' && r <= '9') && !(r >= 'A' && r <= 'Z') && !(r >= 'a' && r <= 'z') {
			return "", false
		}
	}
	return strings.Repeat("0", StockCodeWidth-len(code)) + code, true
}

// CivilDate truncates t to its calendar day in t's own location and returns
// it as midnight UTC, so dates from different sources compare equal.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParsePosts converts raw post rows into sentiment records. Rows whose date does
// not match layout or whose code is malformed are dropped and counted.
func ParsePosts(rows []dto.RawPost, layout string, loc *time.Location) ([]dto.SentimentRecord, dto.DropStats) {
	if loc == nil {
		loc = time.UTC
	}
	stats := dto.DropStats{Total: len(rows)}
	records := make([]dto.SentimentRecord, 0, len(rows))

	for _, row := range rows {
		postedAt, err := time.ParseInLocation(layout, strings.TrimSpace(row.Date), loc)
		if err != nil {
			stats.BadDate++
			continue
		}
		code, ok := NormalizeStockCode(row.Code)
		if !ok {
			stats.BadCode++
			continue
		}
		records = append(records, dto.SentimentRecord{
			Date:           CivilDate(postedAt),
			StockCode:      code,
			StockName:      row.Stock,
			MarketType:     row.Type,
			SentimentLabel: row.SentimentLabel,
		})
	}

	stats.Kept = len(records)
	return records, stats
}

// ParseTicks converts raw tick rows into price ticks. Only the timestamp, the
// code and the close are required; the other columns are read best-effort.
func ParseTicks(rows []dto.RawTick, loc *time.Location) ([]dto.PriceTick, dto.DropStats) {
	if loc == nil {
		loc = time.UTC
	}
	stats := dto.DropStats{Total: len(rows)}
	ticks := make([]dto.PriceTick, 0, len(rows))

	for _, row := range rows {
		ts, ok := parseTimestamp(row.Date, loc)
		if !ok {
			stats.BadDate++
			continue
		}
		code, ok := NormalizeStockCode(row.Code)
		if !ok {
			stats.BadCode++
			continue
		}
		closePrice, err := decimal.NewFromString(strings.TrimSpace(row.Close))
		if err != nil {
			stats.BadPrice++
			continue
		}
		ticks = append(ticks, dto.PriceTick{
			Timestamp: ts,
			StockCode: code,
			Open:      parseDecimalOrZero(row.Open),
			High:      parseDecimalOrZero(row.High),
			Low:       parseDecimalOrZero(row.Low),
			Close:     closePrice,
			Volume:    parseDecimalOrZero(row.Volume).IntPart(),
		})
	}

	stats.Kept = len(ticks)
	return ticks, stats
}

func parseTimestamp(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range tickLayouts {
		if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseDecimalOrZero(value string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero
	}
	return d
}
