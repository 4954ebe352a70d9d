package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewSchedulerService_RejectsInvalidCron(t *testing.T) {
	_, err := NewSchedulerService(new(MockAnalysisService), "every day at four", nil, logger.NewNop())
	assert.Error(t, err)

	_, err = NewSchedulerService(new(MockAnalysisService), "30 16 * * 1-5", nil, logger.NewNop())
	assert.NoError(t, err)

	_, err = NewSchedulerService(new(MockAnalysisService), "@daily", nil, logger.NewNop())
	assert.NoError(t, err)
}

func TestSchedulerService_RunOnce(t *testing.T) {
	tests := []struct {
		name   string
		result *dto.AnalysisResult
		err    error
	}{
		{name: "completed", result: &dto.AnalysisResult{RunID: "run-1", Report: &dto.Report{}}},
		{name: "no viable result", result: &dto.AnalysisResult{RunID: "run-2"}, err: ErrNoViableResult},
		{name: "failure", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := new(MockAnalysisService)
			analysis.On("Run", mock.Anything).Return(tt.result, tt.err).Once()

			scheduler, err := NewSchedulerService(analysis, "@daily", nil, logger.NewNop())
			require.NoError(t, err)

			assert.NotPanics(t, func() { scheduler.RunOnce(context.Background()) })
			analysis.AssertExpectations(t)
		})
	}
}

func TestSchedulerService_RunOnceSkipsOverlappingRuns(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	analysis := new(MockAnalysisService)
	analysis.On("Run", mock.Anything).Run(func(args mock.Arguments) {
		close(started)
		<-release
	}).Return(&dto.AnalysisResult{RunID: "run-1", Report: &dto.Report{}}, nil).Once()

	scheduler, err := NewSchedulerService(analysis, "@daily", nil, logger.NewNop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.RunOnce(context.Background())
	}()
	<-started

	scheduler.RunOnce(context.Background())
	close(release)
	wg.Wait()

	analysis.AssertNumberOfCalls(t, "Run", 1)
}

func TestSchedulerService_StartStopsWithContext(t *testing.T) {
	scheduler, err := NewSchedulerService(new(MockAnalysisService), "@yearly", nil, logger.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scheduler.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}
}

func TestNewSchedulerService_UsesMarketLocation(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	scheduler, err := NewSchedulerService(new(MockAnalysisService), "30 16 * * 1-5", seoul, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, seoul, scheduler.(*schedulerService).cron.Location())

	scheduler, err = NewSchedulerService(new(MockAnalysisService), "@daily", nil, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, time.UTC, scheduler.(*schedulerService).cron.Location())
}

func TestSchedulerService_NextRunIsAfterKoreanClose(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	scheduler, err := NewSchedulerService(new(MockAnalysisService), "30 16 * * 1-5", seoul, logger.NewNop())
	require.NoError(t, err)
	impl := scheduler.(*schedulerService)

	id, err := impl.cron.AddFunc(impl.expression, func() {})
	require.NoError(t, err)
	impl.cron.Start()
	defer impl.cron.Stop()

	next := impl.cron.Entry(id).Next.In(seoul)
	assert.Equal(t, 16, next.Hour())
	assert.Equal(t, 30, next.Minute())
	assert.NotEqual(t, time.Saturday, next.Weekday())
	assert.NotEqual(t, time.Sunday, next.Weekday())
}
