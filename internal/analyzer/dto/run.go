package dto

import (
	"time"
)

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RunResponse is the DTO for API responses containing an analysis run.
type RunResponse struct {
	ID              uint                  `json:"id"`
	RunID           string                `json:"run_id"`
	Status          string                `json:"status"`
	Threshold       float64               `json:"threshold"`
	MatchedRowCount int                   `json:"matched_row_count"`
	SuccessCount    int                   `json:"success_count"`
	Accuracy        float64               `json:"accuracy"`
	Score           float64               `json:"score"`
	StockCodes      []string              `json:"stock_codes"`
	PostsDropped    int                   `json:"posts_dropped"`
	TicksDropped    int                   `json:"ticks_dropped"`
	ErrorMessage    string                `json:"error_message,omitempty"`
	StartedAt       time.Time             `json:"started_at"`
	Duration        int64                 `json:"duration_ms"`
	Evaluations     []ThresholdEvaluation `json:"evaluations,omitempty"`
}

// PredictionResponse is one detail report row.
type PredictionResponse struct {
	Date              string  `json:"date"`
	StockName         string  `json:"stock_name"`
	StockCode         string  `json:"stock_code"`
	MarketType        string  `json:"market_type"`
	PositiveRatio     float64 `json:"positive_ratio"`
	Close             string  `json:"close"`
	PrevClose         string  `json:"prev_close"`
	PredictionSuccess string  `json:"prediction_success"`
}

// SummaryResponse is one summary report row.
type SummaryResponse struct {
	StockName            string  `json:"stock_name"`
	StockCode            string  `json:"stock_code"`
	TotalRecommendations int     `json:"total_recommendations"`
	SuccessCount         int     `json:"success_count"`
	AccuracyPercent      float64 `json:"accuracy_percent"`
}

// AnalysisCompletedEvent is published after a run produced a report.
type AnalysisCompletedEvent struct {
	RunID           string    `json:"run_id"`
	Threshold       float64   `json:"threshold"`
	MatchedRowCount int       `json:"matched_row_count"`
	SuccessCount    int       `json:"success_count"`
	Accuracy        float64   `json:"accuracy"`
	Score           float64   `json:"score"`
	CompletedAt     time.Time `json:"completed_at"`
}
