package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/analyzer/repository"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/telegram"
	"golang-stock-sentiment/pkg/utils"

	"github.com/google/uuid"
)

// AnalysisService runs the full pipeline: load, aggregate, search, report.
type AnalysisService interface {
	Run(ctx context.Context) (*dto.AnalysisResult, error)
}

// AnalysisDependencies are the collaborators of the analysis service. RunRepo,
// Publisher and Notifier are optional.
type AnalysisDependencies struct {
	Source    repository.SourceRepository
	Searcher  ThresholdSearchService
	Reporter  ReportService
	RunRepo   repository.AnalysisRunRepository
	Publisher repository.ResultPublisherRepository
	Notifier  telegram.Notifier
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(cfg *config.Config, log *logger.Logger, deps AnalysisDependencies) (AnalysisService, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &analysisService{
		cfg:  cfg,
		log:  log,
		loc:  loc,
		deps: deps,
		now:  utils.TimeNowKST,
	}, nil
}

type analysisService struct {
	cfg  *config.Config
	log  *logger.Logger
	loc  *time.Location
	deps AnalysisDependencies
	now  func() time.Time
}

// Run executes one analysis. Load failures abort before aggregation; a grid
// without any matched row returns ErrNoViableResult and writes no report.
func (s *analysisService) Run(ctx context.Context) (*dto.AnalysisResult, error) {
	result := &dto.AnalysisResult{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
	}
	ctx = logger.WithRunID(ctx, result.RunID)
	s.log.InfoContext(ctx, "Starting sentiment analysis run")

	run, err := s.startRun(ctx, result)
	if err != nil {
		return nil, err
	}

	posts, err := s.deps.Source.LoadPosts(ctx)
	if err != nil {
		return s.fail(ctx, run, result, fmt.Errorf("failed to load community posts: %w", err))
	}
	ticks, err := s.deps.Source.LoadTicks(ctx)
	if err != nil {
		return s.fail(ctx, run, result, fmt.Errorf("failed to load price ticks: %w", err))
	}

	records, postStats := ParsePosts(posts, s.cfg.Source.PostDateLayout, s.loc)
	priceTicks, tickStats := ParseTicks(ticks, s.loc)
	result.PostStats, result.TickStats = postStats, tickStats
	s.log.InfoContext(ctx, "Source tables parsed",
		logger.IntField("posts_total", postStats.Total),
		logger.IntField("posts_dropped", postStats.Dropped()),
		logger.IntField("ticks_total", tickStats.Total),
		logger.IntField("ticks_dropped", tickStats.Dropped()),
	)

	stats := AggregateSentiment(records)
	movements := CalculatePriceMovements(priceTicks)
	s.log.InfoContext(ctx, "Daily signals computed",
		logger.IntField("sentiment_stats", len(stats)),
		logger.IntField("price_movements", len(movements)),
	)

	search, err := s.deps.Searcher.Search(ctx, stats, movements)
	if errors.Is(err, ErrNoViableResult) {
		s.log.ErrorContext(ctx, "No viable threshold, report generation skipped")
		s.finishRun(ctx, run, result, entity.RunStatusNoResult, err, nil)
		return result, err
	}
	if err != nil {
		return s.fail(ctx, run, result, fmt.Errorf("threshold search failed: %w", err))
	}
	result.Evaluations = search.Evaluations
	s.log.InfoContext(ctx, "Best threshold selected",
		logger.FloatField("threshold", search.Best.Threshold),
		logger.FloatField("accuracy", search.Best.Accuracy),
		logger.IntField("matched_rows", search.Best.MatchedRowCount),
		logger.FloatField("score", search.Best.Score),
	)

	report := s.deps.Reporter.Generate(search)
	result.Report = report
	result.DetailPath, result.SummaryPath = s.reportPaths(result.StartedAt)
	if err := s.deps.Reporter.Write(ctx, report, result.DetailPath, result.SummaryPath); err != nil {
		return s.fail(ctx, run, result, err)
	}

	result.CompletedAt = s.now()
	if err := s.finishRun(ctx, run, result, entity.RunStatusCompleted, nil, report); err != nil {
		return result, fmt.Errorf("failed to persist analysis run: %w", err)
	}

	s.publish(ctx, result)
	s.notify(ctx, result)

	s.log.InfoContext(ctx, "Sentiment analysis run completed",
		logger.Field("duration", result.CompletedAt.Sub(result.StartedAt).String()))
	return result, nil
}

func (s *analysisService) reportPaths(now time.Time) (string, string) {
	detail, summary := s.cfg.Report.OutputDetailPath, s.cfg.Report.OutputSummaryPath
	if s.cfg.Report.DatedFiles {
		return utils.DatedPath(detail, now), utils.DatedPath(summary, now)
	}
	return detail, summary
}

func (s *analysisService) startRun(ctx context.Context, result *dto.AnalysisResult) (*entity.AnalysisRun, error) {
	if s.deps.RunRepo == nil {
		return nil, nil
	}
	run := &entity.AnalysisRun{
		RunID:     result.RunID,
		Status:    entity.RunStatusRunning,
		StartedAt: result.StartedAt,
	}
	if err := s.deps.RunRepo.Create(ctx, run); err != nil {
		s.log.ErrorContext(ctx, "Failed to create analysis run", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to create analysis run: %w", err)
	}
	return run, nil
}

func (s *analysisService) fail(ctx context.Context, run *entity.AnalysisRun, result *dto.AnalysisResult, err error) (*dto.AnalysisResult, error) {
	s.log.ErrorContext(ctx, "Sentiment analysis run failed", logger.ErrorField(err))
	s.finishRun(ctx, run, result, entity.RunStatusFailed, err, nil)
	return nil, err
}

func (s *analysisService) finishRun(ctx context.Context, run *entity.AnalysisRun, result *dto.AnalysisResult, status entity.RunStatus, runErr error, report *dto.Report) error {
	if run == nil {
		return nil
	}
	if result.CompletedAt.IsZero() {
		result.CompletedAt = s.now()
	}

	run.Status = status
	run.PostsTotal = result.PostStats.Total
	run.PostsDropped = result.PostStats.Dropped()
	run.TicksTotal = result.TickStats.Total
	run.TicksDropped = result.TickStats.Dropped()
	run.CompletedAt = sql.NullTime{Time: result.CompletedAt, Valid: true}
	if runErr != nil {
		run.ErrorMessage = sql.NullString{String: runErr.Error(), Valid: true}
	}

	if report == nil {
		if err := s.deps.RunRepo.Update(ctx, run); err != nil {
			s.log.ErrorContext(ctx, "Failed to update analysis run", logger.ErrorField(err))
			return err
		}
		return nil
	}

	evaluations, err := json.Marshal(result.Evaluations)
	if err != nil {
		return err
	}
	ev := report.Evaluation
	run.Threshold = ev.Threshold
	run.MatchedRowCount = ev.MatchedRowCount
	run.SuccessCount = ev.SuccessCount
	run.Accuracy = ev.Accuracy
	run.Score = ev.Score
	run.Evaluations = evaluations
	run.DetailPath = result.DetailPath
	run.SummaryPath = result.SummaryPath

	predictions, summaries, codes := mapReportToEntities(report)
	run.StockCodes = codes

	if err := s.deps.RunRepo.Complete(ctx, run, predictions, summaries); err != nil {
		s.log.ErrorContext(ctx, "Failed to save analysis report", logger.ErrorField(err))
		return err
	}
	return nil
}

func (s *analysisService) publish(ctx context.Context, result *dto.AnalysisResult) {
	if s.deps.Publisher == nil {
		return
	}
	ev := result.Report.Evaluation
	event := dto.AnalysisCompletedEvent{
		RunID:           result.RunID,
		Threshold:       ev.Threshold,
		MatchedRowCount: ev.MatchedRowCount,
		SuccessCount:    ev.SuccessCount,
		Accuracy:        ev.Accuracy,
		Score:           ev.Score,
		CompletedAt:     result.CompletedAt,
	}
	if err := s.deps.Publisher.Publish(ctx, event); err != nil {
		s.log.ErrorContext(ctx, "Failed to publish analysis result", logger.ErrorField(err))
	}
}

func (s *analysisService) notify(ctx context.Context, result *dto.AnalysisResult) {
	if s.deps.Notifier == nil {
		return
	}
	for _, message := range telegram.FormatAnalysisReportForTelegram(result.RunID, result.Report) {
		if err := s.deps.Notifier.SendMessage(ctx, message); err != nil {
			s.log.ErrorContext(ctx, "Failed to send telegram notification", logger.ErrorField(err))
			return
		}
	}
}

func mapReportToEntities(report *dto.Report) ([]entity.PredictionResult, []entity.StockAccuracySummary, []string) {
	predictions := make([]entity.PredictionResult, 0, len(report.Details))
	seen := make(map[string]struct{})
	var codes []string
	for i, d := range report.Details {
		predictions = append(predictions, entity.PredictionResult{
			Position:          i,
			TradeDate:         d.Date,
			StockName:         d.StockName,
			StockCode:         d.StockCode,
			MarketType:        d.MarketType,
			PositiveRatio:     d.PositiveRatio,
			Close:             d.Close,
			PrevClose:         d.PrevClose,
			PredictionSuccess: d.SuccessLabel(),
		})
		if _, ok := seen[d.StockCode]; !ok {
			seen[d.StockCode] = struct{}{}
			codes = append(codes, d.StockCode)
		}
	}

	summaries := make([]entity.StockAccuracySummary, 0, len(report.Summaries))
	for i, sm := range report.Summaries {
		summaries = append(summaries, entity.StockAccuracySummary{
			Position:             i,
			StockName:            sm.StockName,
			StockCode:            sm.StockCode,
			TotalRecommendations: sm.TotalRecommendations,
			SuccessCount:         sm.SuccessCount,
			AccuracyPercent:      sm.AccuracyPercent,
			IsOverall:            sm.Overall,
		})
	}
	return predictions, summaries, codes
}
