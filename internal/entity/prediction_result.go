package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PredictionResult is one detail report row of a run.
type PredictionResult struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	AnalysisRunID     uint            `gorm:"index;not null" json:"analysis_run_id"`
	Position          int             `gorm:"not null" json:"position"`
	TradeDate         time.Time       `gorm:"type:date;not null" json:"trade_date"`
	StockName         string          `gorm:"not null" json:"stock_name"`
	StockCode         string          `gorm:"type:varchar(6);not null" json:"stock_code"`
	MarketType        string          `json:"market_type"`
	PositiveRatio     float64         `json:"positive_ratio"`
	Close             decimal.Decimal `gorm:"type:numeric" json:"close"`
	PrevClose         decimal.Decimal `gorm:"type:numeric" json:"prev_close"`
	PredictionSuccess string          `gorm:"type:varchar(10);not null" json:"prediction_success"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (PredictionResult) TableName() string {
	return "prediction_results"
}

// StockAccuracySummary is one summary report row of a run.
type StockAccuracySummary struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	AnalysisRunID        uint      `gorm:"index;not null" json:"analysis_run_id"`
	Position             int       `gorm:"not null" json:"position"`
	StockName            string    `gorm:"not null" json:"stock_name"`
	StockCode            string    `gorm:"not null" json:"stock_code"`
	TotalRecommendations int       `json:"total_recommendations"`
	SuccessCount         int       `json:"success_count"`
	AccuracyPercent      float64   `json:"accuracy_percent"`
	IsOverall            bool      `json:"is_overall"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (StockAccuracySummary) TableName() string {
	return "stock_accuracy_summaries"
}
