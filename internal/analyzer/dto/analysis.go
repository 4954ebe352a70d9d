package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the day-granularity layout used for keys and reports.
const DateLayout = "2006-01-02"

// Sentiment labels produced by the upstream classifier. Comparison is case-insensitive.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
	LabelOther    = "other"
)

// Prediction outcome labels written to the detail report.
const (
	PredictionSuccess = "Success"
	PredictionFailure = "Failure"
)

// SentimentRecord is a single labeled post reduced to its trading day.
type SentimentRecord struct {
	Date           time.Time
	StockCode      string
	StockName      string
	MarketType     string
	SentimentLabel string
}

// DailySentimentStat is the positive ratio of one stock on one day.
type DailySentimentStat struct {
	Date          time.Time `json:"date"`
	StockCode     string    `json:"stock_code"`
	StockName     string    `json:"stock_name"`
	MarketType    string    `json:"market_type"`
	PositiveRatio float64   `json:"positive_ratio"`
}

// PriceTick is one intraday (or daily) price observation.
type PriceTick struct {
	Timestamp time.Time
	StockCode string
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    int64
}

// DailyPriceMovement is the closing price of a trading day compared with the
// previous available trading day of the same stock.
type DailyPriceMovement struct {
	Date      time.Time       `json:"date"`
	StockCode string          `json:"stock_code"`
	Close     decimal.Decimal `json:"close"`
	PrevClose decimal.Decimal `json:"prev_close"`
	IsUp      bool            `json:"is_up"`
}

// ThresholdEvaluation is the outcome of one grid candidate.
type ThresholdEvaluation struct {
	Threshold       float64 `json:"threshold"`
	MatchedRowCount int     `json:"matched_row_count"`
	SuccessCount    int     `json:"success_count"`
	Accuracy        float64 `json:"accuracy"`
	Score           float64 `json:"score"`
}

// PredictionRecord is a joined (sentiment stat, price movement) pair.
type PredictionRecord struct {
	Date          time.Time       `json:"date"`
	StockName     string          `json:"stock_name"`
	StockCode     string          `json:"stock_code"`
	MarketType    string          `json:"market_type"`
	PositiveRatio float64         `json:"positive_ratio"`
	Close         decimal.Decimal `json:"close"`
	PrevClose     decimal.Decimal `json:"prev_close"`
	IsUp          bool            `json:"is_up"`
}

// SuccessLabel returns "Success" when the price went up, "Failure" otherwise.
func (p PredictionRecord) SuccessLabel() string {
	if p.IsUp {
		return PredictionSuccess
	}
	return PredictionFailure
}

// StockSummary is the accuracy of one stock, or of all stocks when Overall is set.
type StockSummary struct {
	StockName            string  `json:"stock_name"`
	StockCode            string  `json:"stock_code"`
	TotalRecommendations int     `json:"total_recommendations"`
	SuccessCount         int     `json:"success_count"`
	AccuracyPercent      float64 `json:"accuracy_percent"`
	Overall              bool    `json:"overall"`
}

// SearchResult is the winner of a threshold grid search.
type SearchResult struct {
	Best        ThresholdEvaluation
	Predictions []PredictionRecord
	// Evaluations holds every non-empty candidate in ascending threshold order.
	Evaluations []ThresholdEvaluation
}

// Report is the detail and summary tables of a winning threshold.
type Report struct {
	Evaluation ThresholdEvaluation
	Details    []PredictionRecord
	Summaries  []StockSummary
}

// AnalysisResult is everything a single pipeline run produced.
type AnalysisResult struct {
	RunID       string
	Report      *Report
	Evaluations []ThresholdEvaluation
	PostStats   DropStats
	TickStats   DropStats
	DetailPath  string
	SummaryPath string
	StartedAt   time.Time
	CompletedAt time.Time
}
