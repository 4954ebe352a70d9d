package entity

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// RunStatus is the lifecycle state of an analysis run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusNoResult  RunStatus = "no_result"
	RunStatusFailed    RunStatus = "failed"
)

// AnalysisRun is one execution of the sentiment threshold search.
type AnalysisRun struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	RunID           string         `gorm:"type:uuid;uniqueIndex;not null" json:"run_id"`
	Status          RunStatus      `gorm:"type:varchar(20);not null" json:"status"`
	Threshold       float64        `json:"threshold"`
	MatchedRowCount int            `json:"matched_row_count"`
	SuccessCount    int            `json:"success_count"`
	Accuracy        float64        `json:"accuracy"`
	Score           float64        `json:"score"`
	Evaluations     datatypes.JSON `gorm:"type:jsonb" json:"evaluations"`
	StockCodes      pq.StringArray `gorm:"type:text[]" json:"stock_codes"`
	PostsTotal      int            `json:"posts_total"`
	PostsDropped    int            `json:"posts_dropped"`
	TicksTotal      int            `json:"ticks_total"`
	TicksDropped    int            `json:"ticks_dropped"`
	DetailPath      string         `json:"detail_path"`
	SummaryPath     string         `json:"summary_path"`
	ErrorMessage    sql.NullString `json:"error_message"`
	StartedAt       time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt     sql.NullTime   `json:"completed_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Predictions []PredictionResult     `gorm:"foreignKey:AnalysisRunID" json:"predictions,omitempty"`
	Summaries   []StockAccuracySummary `gorm:"foreignKey:AnalysisRunID" json:"summaries,omitempty"`
}

// TableName specifies the table name for the AnalysisRun model.
func (AnalysisRun) TableName() string {
	return "analysis_runs"
}
