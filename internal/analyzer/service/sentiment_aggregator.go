package service

import (
	"sort"
	"strings"

	"golang-stock-sentiment/internal/analyzer/dto"
)

type sentimentKey struct {
	date       string
	stockCode  string
	stockName  string
	marketType string
}

type labelCounts struct {
	stat     dto.DailySentimentStat
	positive int
	negative int
}

// PositiveRatio is positive / (positive + negative); neutral and other labels
// are excluded from both sides. A day without polarized posts scores 0.
func PositiveRatio(positive, negative int) float64 {
	total := positive + negative
	if total == 0 {
		return 0.0
	}
	return float64(positive) / float64(total)
}

// AggregateSentiment reduces sentiment records to one positive ratio per
// (date, stock code, stock name, market type).
func AggregateSentiment(records []dto.SentimentRecord) []dto.DailySentimentStat {
	groups := make(map[sentimentKey]*labelCounts)

	for _, rec := range records {
		key := sentimentKey{
			date:       rec.Date.Format(dto.DateLayout),
			stockCode:  rec.StockCode,
			stockName:  rec.StockName,
			marketType: rec.MarketType,
		}
		g, ok := groups[key]
		if !ok {
			g = &labelCounts{stat: dto.DailySentimentStat{
				Date:       rec.Date,
				StockCode:  rec.StockCode,
				StockName:  rec.StockName,
				MarketType: rec.MarketType,
			}}
			groups[key] = g
		}

		switch strings.ToLower(strings.TrimSpace(rec.SentimentLabel)) {
		case dto.LabelPositive:
			g.positive++
		case dto.LabelNegative:
			g.negative++
		}
	}

	stats := make([]dto.DailySentimentStat, 0, len(groups))
	for _, g := range groups {
		g.stat.PositiveRatio = PositiveRatio(g.positive, g.negative)
		stats = append(stats, g.stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.StockCode != b.StockCode {
			return a.StockCode < b.StockCode
		}
		if a.StockName != b.StockName {
			return a.StockName < b.StockName
		}
		return a.MarketType < b.MarketType
	})

	return stats
}
