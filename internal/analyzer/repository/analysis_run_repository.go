package repository

import (
	"context"

	"golang-stock-sentiment/internal/entity"

	"gorm.io/gorm"
)

// AnalysisRunRepository defines the interface for analysis run data operations.
type AnalysisRunRepository interface {
	Create(ctx context.Context, run *entity.AnalysisRun) error
	Update(ctx context.Context, run *entity.AnalysisRun) error
	Complete(ctx context.Context, run *entity.AnalysisRun, predictions []entity.PredictionResult, summaries []entity.StockAccuracySummary) error
	FindAll(ctx context.Context, limit int) ([]entity.AnalysisRun, error)
	FindByRunID(ctx context.Context, runID string) (*entity.AnalysisRun, error)
	FindLatestCompleted(ctx context.Context) (*entity.AnalysisRun, error)
	FindPredictions(ctx context.Context, analysisRunID uint) ([]entity.PredictionResult, error)
	FindSummaries(ctx context.Context, analysisRunID uint) ([]entity.StockAccuracySummary, error)
}

// NewAnalysisRunRepository creates a new GORM-based analysis run repository.
func NewAnalysisRunRepository(db *gorm.DB) AnalysisRunRepository {
	return &analysisRunRepository{db: db}
}

type analysisRunRepository struct {
	db *gorm.DB
}

// Create creates a new analysis run in the database.
func (r *analysisRunRepository) Create(ctx context.Context, run *entity.AnalysisRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Update saves every column of an existing run.
func (r *analysisRunRepository) Update(ctx context.Context, run *entity.AnalysisRun) error {
	return r.db.WithContext(ctx).Omit("Predictions", "Summaries").Save(run).Error
}

// Complete stores the report rows of a run and its final state in one transaction.
func (r *analysisRunRepository) Complete(ctx context.Context, run *entity.AnalysisRun, predictions []entity.PredictionResult, summaries []entity.StockAccuracySummary) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range predictions {
			predictions[i].AnalysisRunID = run.ID
		}
		for i := range summaries {
			summaries[i].AnalysisRunID = run.ID
		}
		if len(predictions) > 0 {
			if err := tx.CreateInBatches(&predictions, 500).Error; err != nil {
				return err
			}
		}
		if len(summaries) > 0 {
			if err := tx.Create(&summaries).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Predictions", "Summaries").Save(run).Error
	})
}

// FindAll retrieves the most recent runs, newest first.
func (r *analysisRunRepository) FindAll(ctx context.Context, limit int) ([]entity.AnalysisRun, error) {
	var runs []entity.AnalysisRun
	query := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// FindByRunID retrieves a run by its public uuid.
func (r *analysisRunRepository) FindByRunID(ctx context.Context, runID string) (*entity.AnalysisRun, error) {
	var run entity.AnalysisRun
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// FindLatestCompleted retrieves the newest run that produced a report.
func (r *analysisRunRepository) FindLatestCompleted(ctx context.Context) (*entity.AnalysisRun, error) {
	var run entity.AnalysisRun
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.RunStatusCompleted).
		Order("started_at DESC").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// FindPredictions retrieves the detail rows of a run in report order.
func (r *analysisRunRepository) FindPredictions(ctx context.Context, analysisRunID uint) ([]entity.PredictionResult, error) {
	var rows []entity.PredictionResult
	if err := r.db.WithContext(ctx).Where("analysis_run_id = ?", analysisRunID).Order("position").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindSummaries retrieves the summary rows of a run in report order.
func (r *analysisRunRepository) FindSummaries(ctx context.Context, analysisRunID uint) ([]entity.StockAccuracySummary, error) {
	var rows []entity.StockAccuracySummary
	if err := r.db.WithContext(ctx).Where("analysis_run_id = ?", analysisRunID).Order("position").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
