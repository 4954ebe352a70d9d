package service

import (
	"testing"
	"time"

	"golang-stock-sentiment/internal/analyzer/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func post(date time.Time, code, label string) dto.SentimentRecord {
	return dto.SentimentRecord{Date: date, StockCode: code, StockName: "Stock " + code, MarketType: "KOSPI", SentimentLabel: label}
}

func TestPositiveRatio(t *testing.T) {
	assert.Equal(t, 0.0, PositiveRatio(0, 0))
	assert.Equal(t, 1.0, PositiveRatio(3, 0))
	assert.Equal(t, 0.0, PositiveRatio(0, 2))
	assert.InDelta(t, 0.75, PositiveRatio(3, 1), 1e-12)
}

func TestAggregateSentiment_CountsOnlyPolarizedLabels(t *testing.T) {
	d := day(2024, 3, 5)
	records := []dto.SentimentRecord{
		post(d, "005930", "positive"),
		post(d, "005930", "Positive"),
		post(d, "005930", " POSITIVE "),
		post(d, "005930", "negative"),
		post(d, "005930", "neutral"),
		post(d, "005930", "other"),
		post(d, "005930", "spam"),
	}

	stats := AggregateSentiment(records)

	require.Len(t, stats, 1)
	assert.Equal(t, "005930", stats[0].StockCode)
	assert.Equal(t, "Stock 005930", stats[0].StockName)
	assert.Equal(t, "KOSPI", stats[0].MarketType)
	assert.InDelta(t, 0.75, stats[0].PositiveRatio, 1e-12)
}

func TestAggregateSentiment_NeutralOnlyDayScoresZero(t *testing.T) {
	stats := AggregateSentiment([]dto.SentimentRecord{
		post(day(2024, 3, 5), "005930", "neutral"),
		post(day(2024, 3, 5), "005930", "other"),
	})

	require.Len(t, stats, 1)
	assert.Equal(t, 0.0, stats[0].PositiveRatio)
}

func TestAggregateSentiment_GroupsByDayCodeNameAndType(t *testing.T) {
	records := []dto.SentimentRecord{
		post(day(2024, 3, 6), "000660", "positive"),
		post(day(2024, 3, 5), "005930", "positive"),
		post(day(2024, 3, 5), "005930", "negative"),
		post(day(2024, 3, 6), "005930", "negative"),
		{Date: day(2024, 3, 5), StockCode: "005930", StockName: "Stock 005930", MarketType: "KOSDAQ", SentimentLabel: "positive"},
	}

	stats := AggregateSentiment(records)

	require.Len(t, stats, 4)
	assert.Equal(t, day(2024, 3, 5), stats[0].Date)
	assert.Equal(t, "KOSDAQ", stats[0].MarketType)
	assert.Equal(t, 1.0, stats[0].PositiveRatio)
	assert.Equal(t, "KOSPI", stats[1].MarketType)
	assert.InDelta(t, 0.5, stats[1].PositiveRatio, 1e-12)
	assert.Equal(t, "000660", stats[2].StockCode)
	assert.Equal(t, day(2024, 3, 6), stats[2].Date)
	assert.Equal(t, "005930", stats[3].StockCode)
	assert.Equal(t, 0.0, stats[3].PositiveRatio)
}

func TestAggregateSentiment_Empty(t *testing.T) {
	assert.Empty(t, AggregateSentiment(nil))
}
