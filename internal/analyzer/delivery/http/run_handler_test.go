package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/analyzer/service"
	"golang-stock-sentiment/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRunService struct {
	mock.Mock
}

func (m *MockRunService) GetRuns(ctx context.Context, limit int) ([]*dto.RunResponse, error) {
	args := m.Called(ctx, limit)
	runs, _ := args.Get(0).([]*dto.RunResponse)
	return runs, args.Error(1)
}

func (m *MockRunService) GetRunByRunID(ctx context.Context, runID string) (*dto.RunResponse, error) {
	args := m.Called(ctx, runID)
	run, _ := args.Get(0).(*dto.RunResponse)
	return run, args.Error(1)
}

func (m *MockRunService) GetLatestRun(ctx context.Context) (*dto.RunResponse, error) {
	args := m.Called(ctx)
	run, _ := args.Get(0).(*dto.RunResponse)
	return run, args.Error(1)
}

func (m *MockRunService) GetPredictions(ctx context.Context, runID string) ([]*dto.PredictionResponse, error) {
	args := m.Called(ctx, runID)
	rows, _ := args.Get(0).([]*dto.PredictionResponse)
	return rows, args.Error(1)
}

func (m *MockRunService) GetSummaries(ctx context.Context, runID string) ([]*dto.SummaryResponse, error) {
	args := m.Called(ctx, runID)
	rows, _ := args.Get(0).([]*dto.SummaryResponse)
	return rows, args.Error(1)
}

func (m *MockRunService) TriggerRun(ctx context.Context) (*dto.RunResponse, error) {
	args := m.Called(ctx)
	run, _ := args.Get(0).(*dto.RunResponse)
	return run, args.Error(1)
}

func newTestServer(svc service.RunService) *echo.Echo {
	e := echo.New()
	h := NewRunHandler(svc, logger.NewNop(), time.Minute)
	h.RegisterRoutes(e.Group("/api/v1/runs"))
	return e
}

func do(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRunHandler_GetRuns(t *testing.T) {
	svc := new(MockRunService)
	svc.On("GetRuns", mock.Anything, 50).Return([]*dto.RunResponse{{RunID: "a"}, {RunID: "b"}}, nil).Once()
	e := newTestServer(svc)

	rec := do(e, http.MethodGet, "/api/v1/runs")
	require.Equal(t, http.StatusOK, rec.Code)

	var runs []dto.RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	assert.Len(t, runs, 2)

	// second call is served from cache
	rec = do(e, http.MethodGet, "/api/v1/runs")
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertNumberOfCalls(t, "GetRuns", 1)
}

func TestRunHandler_GetRunsInvalidLimit(t *testing.T) {
	e := newTestServer(new(MockRunService))

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/v1/runs?limit=abc").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/v1/runs?limit=0").Code)
}

func TestRunHandler_GetRunByID(t *testing.T) {
	svc := new(MockRunService)
	svc.On("GetRunByRunID", mock.Anything, "abc").Return(&dto.RunResponse{RunID: "abc", Threshold: 0.35}, nil).Once()
	svc.On("GetRunByRunID", mock.Anything, "missing").Return(nil, service.ErrRunNotFound).Once()
	svc.On("GetRunByRunID", mock.Anything, "broken").Return(nil, errors.New("db down")).Once()
	e := newTestServer(svc)

	rec := do(e, http.MethodGet, "/api/v1/runs/abc")
	require.Equal(t, http.StatusOK, rec.Code)
	var run dto.RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, 0.35, run.Threshold)

	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/api/v1/runs/missing").Code)
	assert.Equal(t, http.StatusInternalServerError, do(e, http.MethodGet, "/api/v1/runs/broken").Code)
}

func TestRunHandler_LatestIsNotShadowedByID(t *testing.T) {
	svc := new(MockRunService)
	svc.On("GetLatestRun", mock.Anything).Return(&dto.RunResponse{RunID: "newest"}, nil).Once()
	e := newTestServer(svc)

	rec := do(e, http.MethodGet, "/api/v1/runs/latest")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "newest")
	svc.AssertNotCalled(t, "GetRunByRunID", mock.Anything, "latest")
}

func TestRunHandler_PredictionsAndSummary(t *testing.T) {
	svc := new(MockRunService)
	svc.On("GetPredictions", mock.Anything, "abc").Return([]*dto.PredictionResponse{{StockCode: "005930", PredictionSuccess: "Success"}}, nil).Once()
	svc.On("GetSummaries", mock.Anything, "abc").Return([]*dto.SummaryResponse{{StockCode: "005930"}, {StockCode: "-"}}, nil).Once()
	e := newTestServer(svc)

	rec := do(e, http.MethodGet, "/api/v1/runs/abc/predictions")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"prediction_success":"Success"`)

	rec = do(e, http.MethodGet, "/api/v1/runs/abc/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []dto.SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 2)
}

func TestRunHandler_TriggerRun(t *testing.T) {
	svc := new(MockRunService)
	svc.On("GetRuns", mock.Anything, 50).Return([]*dto.RunResponse{}, nil).Twice()
	svc.On("TriggerRun", mock.Anything).Return(&dto.RunResponse{RunID: "fresh"}, nil).Once()
	svc.On("TriggerRun", mock.Anything).Return(nil, service.ErrNoViableResult).Once()
	svc.On("TriggerRun", mock.Anything).Return(nil, errors.New("source missing")).Once()
	e := newTestServer(svc)

	do(e, http.MethodGet, "/api/v1/runs")

	rec := do(e, http.MethodPost, "/api/v1/runs")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "fresh")

	assert.Equal(t, http.StatusUnprocessableEntity, do(e, http.MethodPost, "/api/v1/runs").Code)
	assert.Equal(t, http.StatusInternalServerError, do(e, http.MethodPost, "/api/v1/runs").Code)

	// the trigger flushed the cached list
	do(e, http.MethodGet, "/api/v1/runs")
	svc.AssertNumberOfCalls(t, "GetRuns", 2)
}
