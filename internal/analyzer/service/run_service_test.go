package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/logger"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func storedRun() *entity.AnalysisRun {
	started := time.Date(2024, 3, 11, 16, 30, 0, 0, time.UTC)
	return &entity.AnalysisRun{
		ID:              7,
		RunID:           "2f1c3d1e-4c55-4d4b-9a0a-5b8c1f7e9a10",
		Status:          entity.RunStatusCompleted,
		Threshold:       0.35,
		MatchedRowCount: 20,
		SuccessCount:    15,
		Accuracy:        0.75,
		Score:           0.9757,
		Evaluations:     datatypes.JSON(`[{"threshold":0.35,"matched_row_count":20,"success_count":15,"accuracy":0.75,"score":0.9757}]`),
		StockCodes:      pq.StringArray{"005930", "000660"},
		StartedAt:       started,
		CompletedAt:     sql.NullTime{Time: started.Add(1500 * time.Millisecond), Valid: true},
	}
}

func TestRunService_GetRunByRunID(t *testing.T) {
	repo := new(MockAnalysisRunRepository)
	run := storedRun()
	repo.On("FindByRunID", mock.Anything, run.RunID).Return(run, nil)

	svc := NewRunService(repo, nil, logger.NewNop())
	resp, err := svc.GetRunByRunID(context.Background(), run.RunID)

	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, int64(1500), resp.Duration)
	assert.Equal(t, []string{"005930", "000660"}, resp.StockCodes)
	require.Len(t, resp.Evaluations, 1)
	assert.Equal(t, 20, resp.Evaluations[0].MatchedRowCount)
}

func TestRunService_NotFound(t *testing.T) {
	repo := new(MockAnalysisRunRepository)
	repo.On("FindByRunID", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)
	repo.On("FindLatestCompleted", mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	svc := NewRunService(repo, nil, logger.NewNop())

	_, err := svc.GetRunByRunID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = svc.GetPredictions(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = svc.GetLatestRun(context.Background())
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunService_GetRunsOmitsEvaluations(t *testing.T) {
	repo := new(MockAnalysisRunRepository)
	repo.On("FindAll", mock.Anything, 10).Return([]entity.AnalysisRun{*storedRun(), *storedRun()}, nil)

	svc := NewRunService(repo, nil, logger.NewNop())
	runs, err := svc.GetRuns(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Nil(t, runs[0].Evaluations)
}

func TestRunService_GetPredictionsAndSummaries(t *testing.T) {
	repo := new(MockAnalysisRunRepository)
	run := storedRun()
	repo.On("FindByRunID", mock.Anything, run.RunID).Return(run, nil)
	repo.On("FindPredictions", mock.Anything, run.ID).Return([]entity.PredictionResult{{
		TradeDate:         time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		StockName:         "삼성전자",
		StockCode:         "005930",
		PositiveRatio:     0.75,
		Close:             decimal.RequireFromString("72800"),
		PrevClose:         decimal.RequireFromString("72100.5"),
		PredictionSuccess: "Success",
	}}, nil)
	repo.On("FindSummaries", mock.Anything, run.ID).Return([]entity.StockAccuracySummary{
		{StockName: "삼성전자", StockCode: "005930", TotalRecommendations: 1, SuccessCount: 1, AccuracyPercent: 100},
		{StockName: "★전체 평균★", StockCode: "-", TotalRecommendations: 1, SuccessCount: 1, AccuracyPercent: 100, IsOverall: true},
	}, nil)

	svc := NewRunService(repo, nil, logger.NewNop())

	predictions, err := svc.GetPredictions(context.Background(), run.RunID)
	require.NoError(t, err)
	require.Len(t, predictions, 1)
	assert.Equal(t, "2024-03-05", predictions[0].Date)
	assert.Equal(t, "72100.5", predictions[0].PrevClose)

	summaries, err := svc.GetSummaries(context.Background(), run.RunID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "-", summaries[1].StockCode)
}

func TestRunService_TriggerRun(t *testing.T) {
	repo := new(MockAnalysisRunRepository)
	run := storedRun()
	repo.On("FindByRunID", mock.Anything, run.RunID).Return(run, nil)

	analysis := new(MockAnalysisService)
	analysis.On("Run", mock.Anything).Return(&dto.AnalysisResult{RunID: run.RunID}, nil).Once()

	svc := NewRunService(repo, analysis, logger.NewNop())
	resp, err := svc.TriggerRun(context.Background())

	require.NoError(t, err)
	assert.Equal(t, run.RunID, resp.RunID)
}

func TestRunService_TriggerRunPropagatesNoViableResult(t *testing.T) {
	analysis := new(MockAnalysisService)
	analysis.On("Run", mock.Anything).Return(&dto.AnalysisResult{RunID: "x"}, ErrNoViableResult).Once()

	svc := NewRunService(new(MockAnalysisRunRepository), analysis, logger.NewNop())
	_, err := svc.TriggerRun(context.Background())

	assert.True(t, errors.Is(err, ErrNoViableResult))
}
