package service

import (
	"context"
	"encoding/json"
	"errors"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/analyzer/repository"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/logger"

	"gorm.io/gorm"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("analysis run not found")

// RunService exposes persisted analysis runs.
type RunService interface {
	GetRuns(ctx context.Context, limit int) ([]*dto.RunResponse, error)
	GetRunByRunID(ctx context.Context, runID string) (*dto.RunResponse, error)
	GetLatestRun(ctx context.Context) (*dto.RunResponse, error)
	GetPredictions(ctx context.Context, runID string) ([]*dto.PredictionResponse, error)
	GetSummaries(ctx context.Context, runID string) ([]*dto.SummaryResponse, error)
	TriggerRun(ctx context.Context) (*dto.RunResponse, error)
}

// NewRunService creates a new run service.
func NewRunService(runRepo repository.AnalysisRunRepository, analysis AnalysisService, logger *logger.Logger) RunService {
	return &runService{
		runRepo:  runRepo,
		analysis: analysis,
		logger:   logger,
	}
}

type runService struct {
	runRepo  repository.AnalysisRunRepository
	analysis AnalysisService
	logger   *logger.Logger
}

// GetRuns retrieves the newest runs.
func (s *runService) GetRuns(ctx context.Context, limit int) ([]*dto.RunResponse, error) {
	runs, err := s.runRepo.FindAll(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to get analysis runs", logger.ErrorField(err))
		return nil, err
	}

	responses := make([]*dto.RunResponse, 0, len(runs))
	for i := range runs {
		responses = append(responses, s.mapToRunResponse(&runs[i], false))
	}
	return responses, nil
}

// GetRunByRunID retrieves a run with its evaluation grid.
func (s *runService) GetRunByRunID(ctx context.Context, runID string) (*dto.RunResponse, error) {
	run, err := s.findRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	return s.mapToRunResponse(run, true), nil
}

// GetLatestRun retrieves the newest completed run.
func (s *runService) GetLatestRun(ctx context.Context) (*dto.RunResponse, error) {
	run, err := s.runRepo.FindLatestCompleted(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		s.logger.Error("Failed to get latest analysis run", logger.ErrorField(err))
		return nil, err
	}
	return s.mapToRunResponse(run, true), nil
}

// GetPredictions retrieves the detail report rows of a run.
func (s *runService) GetPredictions(ctx context.Context, runID string) ([]*dto.PredictionResponse, error) {
	run, err := s.findRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	rows, err := s.runRepo.FindPredictions(ctx, run.ID)
	if err != nil {
		s.logger.Error("Failed to get predictions", logger.ErrorField(err), logger.StringField("run_id", runID))
		return nil, err
	}

	responses := make([]*dto.PredictionResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, &dto.PredictionResponse{
			Date:              row.TradeDate.Format(dto.DateLayout),
			StockName:         row.StockName,
			StockCode:         row.StockCode,
			MarketType:        row.MarketType,
			PositiveRatio:     row.PositiveRatio,
			Close:             row.Close.String(),
			PrevClose:         row.PrevClose.String(),
			PredictionSuccess: row.PredictionSuccess,
		})
	}
	return responses, nil
}

// GetSummaries retrieves the summary report rows of a run.
func (s *runService) GetSummaries(ctx context.Context, runID string) ([]*dto.SummaryResponse, error) {
	run, err := s.findRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	rows, err := s.runRepo.FindSummaries(ctx, run.ID)
	if err != nil {
		s.logger.Error("Failed to get summaries", logger.ErrorField(err), logger.StringField("run_id", runID))
		return nil, err
	}

	responses := make([]*dto.SummaryResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, &dto.SummaryResponse{
			StockName:            row.StockName,
			StockCode:            row.StockCode,
			TotalRecommendations: row.TotalRecommendations,
			SuccessCount:         row.SuccessCount,
			AccuracyPercent:      row.AccuracyPercent,
		})
	}
	return responses, nil
}

// TriggerRun runs the analysis now and returns the stored run.
func (s *runService) TriggerRun(ctx context.Context) (*dto.RunResponse, error) {
	result, err := s.analysis.Run(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetRunByRunID(ctx, result.RunID)
}

func (s *runService) findRun(ctx context.Context, runID string) (*entity.AnalysisRun, error) {
	run, err := s.runRepo.FindByRunID(ctx, runID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		s.logger.Error("Failed to find analysis run", logger.ErrorField(err), logger.StringField("run_id", runID))
		return nil, err
	}
	return run, nil
}

// mapToRunResponse maps an entity.AnalysisRun to a dto.RunResponse.
func (s *runService) mapToRunResponse(run *entity.AnalysisRun, withEvaluations bool) *dto.RunResponse {
	var duration int64
	if run.CompletedAt.Valid {
		duration = run.CompletedAt.Time.Sub(run.StartedAt).Milliseconds()
	}

	resp := &dto.RunResponse{
		ID:              run.ID,
		RunID:           run.RunID,
		Status:          string(run.Status),
		Threshold:       run.Threshold,
		MatchedRowCount: run.MatchedRowCount,
		SuccessCount:    run.SuccessCount,
		Accuracy:        run.Accuracy,
		Score:           run.Score,
		StockCodes:      []string(run.StockCodes),
		PostsDropped:    run.PostsDropped,
		TicksDropped:    run.TicksDropped,
		ErrorMessage:    run.ErrorMessage.String,
		StartedAt:       run.StartedAt,
		Duration:        duration,
	}

	if withEvaluations && len(run.Evaluations) > 0 {
		if err := json.Unmarshal(run.Evaluations, &resp.Evaluations); err != nil {
			s.logger.Warn("Failed to decode stored evaluations", logger.ErrorField(err), logger.StringField("run_id", run.RunID))
		}
	}
	return resp
}
