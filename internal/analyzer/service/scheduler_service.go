package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang-stock-sentiment/pkg/logger"

	"github.com/robfig/cron/v3"
)

// SchedulerService runs the analysis on a cron schedule.
type SchedulerService interface {
	Start(ctx context.Context) error
	RunOnce(ctx context.Context)
}

// NewSchedulerService creates a new scheduler service for a five-field cron
// expression evaluated in loc (UTC when nil).
func NewSchedulerService(analysis AnalysisService, expression string, loc *time.Location, log *logger.Logger) (SchedulerService, error) {
	if loc == nil {
		loc = time.UTC
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(expression); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expression, err)
	}
	return &schedulerService{
		analysis:   analysis,
		expression: expression,
		cron:       cron.New(cron.WithParser(parser), cron.WithLocation(loc)),
		log:        log,
	}, nil
}

type schedulerService struct {
	analysis   AnalysisService
	expression string
	cron       *cron.Cron
	log        *logger.Logger
	running    sync.Mutex
}

// Start schedules the analysis and blocks until ctx is done.
func (s *schedulerService) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.expression, func() { s.RunOnce(ctx) }); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("Scheduler started",
		logger.StringField("cron", s.expression),
		logger.StringField("location", s.cron.Location().String()))

	<-ctx.Done()
	s.log.Info("Scheduler service stopping")
	<-s.cron.Stop().Done()
	return nil
}

// RunOnce executes a single analysis unless one is already in progress.
func (s *schedulerService) RunOnce(ctx context.Context) {
	if !s.running.TryLock() {
		s.log.Warn("Previous analysis still running, skipping scheduled run")
		return
	}
	defer s.running.Unlock()

	result, err := s.analysis.Run(ctx)
	switch {
	case errors.Is(err, ErrNoViableResult):
		s.log.Warn("Scheduled analysis found no viable threshold")
	case err != nil:
		s.log.Error("Scheduled analysis failed", logger.ErrorField(err))
	default:
		s.log.Info("Scheduled analysis finished",
			logger.StringField("run_id", result.RunID),
			logger.FloatField("threshold", result.Report.Evaluation.Threshold))
	}
}
