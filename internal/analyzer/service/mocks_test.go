package service

import (
	"context"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/entity"

	"github.com/stretchr/testify/mock"
)

type MockSourceRepository struct {
	mock.Mock
}

func (m *MockSourceRepository) LoadPosts(ctx context.Context) ([]dto.RawPost, error) {
	args := m.Called(ctx)
	posts, _ := args.Get(0).([]dto.RawPost)
	return posts, args.Error(1)
}

func (m *MockSourceRepository) LoadTicks(ctx context.Context) ([]dto.RawTick, error) {
	args := m.Called(ctx)
	ticks, _ := args.Get(0).([]dto.RawTick)
	return ticks, args.Error(1)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) WriteDetail(ctx context.Context, path string, rows []dto.PredictionRecord) error {
	return m.Called(ctx, path, rows).Error(0)
}

func (m *MockReportRepository) WriteSummary(ctx context.Context, path string, rows []dto.StockSummary) error {
	return m.Called(ctx, path, rows).Error(0)
}

type MockAnalysisRunRepository struct {
	mock.Mock
}

func (m *MockAnalysisRunRepository) Create(ctx context.Context, run *entity.AnalysisRun) error {
	return m.Called(ctx, run).Error(0)
}

func (m *MockAnalysisRunRepository) Update(ctx context.Context, run *entity.AnalysisRun) error {
	return m.Called(ctx, run).Error(0)
}

func (m *MockAnalysisRunRepository) Complete(ctx context.Context, run *entity.AnalysisRun, predictions []entity.PredictionResult, summaries []entity.StockAccuracySummary) error {
	return m.Called(ctx, run, predictions, summaries).Error(0)
}

func (m *MockAnalysisRunRepository) FindAll(ctx context.Context, limit int) ([]entity.AnalysisRun, error) {
	args := m.Called(ctx, limit)
	runs, _ := args.Get(0).([]entity.AnalysisRun)
	return runs, args.Error(1)
}

func (m *MockAnalysisRunRepository) FindByRunID(ctx context.Context, runID string) (*entity.AnalysisRun, error) {
	args := m.Called(ctx, runID)
	run, _ := args.Get(0).(*entity.AnalysisRun)
	return run, args.Error(1)
}

func (m *MockAnalysisRunRepository) FindLatestCompleted(ctx context.Context) (*entity.AnalysisRun, error) {
	args := m.Called(ctx)
	run, _ := args.Get(0).(*entity.AnalysisRun)
	return run, args.Error(1)
}

func (m *MockAnalysisRunRepository) FindPredictions(ctx context.Context, analysisRunID uint) ([]entity.PredictionResult, error) {
	args := m.Called(ctx, analysisRunID)
	rows, _ := args.Get(0).([]entity.PredictionResult)
	return rows, args.Error(1)
}

func (m *MockAnalysisRunRepository) FindSummaries(ctx context.Context, analysisRunID uint) ([]entity.StockAccuracySummary, error) {
	args := m.Called(ctx, analysisRunID)
	rows, _ := args.Get(0).([]entity.StockAccuracySummary)
	return rows, args.Error(1)
}

type MockResultPublisher struct {
	mock.Mock
}

func (m *MockResultPublisher) Publish(ctx context.Context, event dto.AnalysisCompletedEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendMessage(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Run(ctx context.Context) (*dto.AnalysisResult, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).(*dto.AnalysisResult)
	return result, args.Error(1)
}
