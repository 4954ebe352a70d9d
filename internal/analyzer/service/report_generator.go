package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/analyzer/repository"
	"golang-stock-sentiment/pkg/logger"
)

// OverallStockCode is the placeholder code of the synthetic overall summary row.
const OverallStockCode = "-"

// ReportService builds the detail and summary tables of a winning threshold and
// persists them.
type ReportService interface {
	Generate(result *dto.SearchResult) *dto.Report
	Write(ctx context.Context, report *dto.Report, detailPath, summaryPath string) error
}

// NewReportService creates a report service writing through writer.
func NewReportService(writer repository.ReportRepository, overallLabel string, log *logger.Logger) ReportService {
	return &reportService{writer: writer, overallLabel: overallLabel, log: log}
}

type reportService struct {
	writer       repository.ReportRepository
	overallLabel string
	log          *logger.Logger
}

func (s *reportService) Generate(result *dto.SearchResult) *dto.Report {
	return &dto.Report{
		Evaluation: result.Best,
		Details:    BuildDetailRows(result.Predictions),
		Summaries:  BuildSummaryRows(result.Predictions, s.overallLabel),
	}
}

func (s *reportService) Write(ctx context.Context, report *dto.Report, detailPath, summaryPath string) error {
	if err := s.writer.WriteDetail(ctx, detailPath, report.Details); err != nil {
		return fmt.Errorf("failed to write detail report: %w", err)
	}
	s.log.InfoContext(ctx, "Detail report written", logger.StringField("path", detailPath), logger.IntField("rows", len(report.Details)))

	if err := s.writer.WriteSummary(ctx, summaryPath, report.Summaries); err != nil {
		return fmt.Errorf("failed to write summary report: %w", err)
	}
	s.log.InfoContext(ctx, "Summary report written", logger.StringField("path", summaryPath), logger.IntField("rows", len(report.Summaries)))
	return nil
}

// BuildDetailRows returns a copy of predictions sorted by stock name ascending,
// then date descending.
func BuildDetailRows(predictions []dto.PredictionRecord) []dto.PredictionRecord {
	rows := make([]dto.PredictionRecord, len(predictions))
	copy(rows, predictions)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.StockName != b.StockName {
			return a.StockName < b.StockName
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.StockCode != b.StockCode {
			return a.StockCode < b.StockCode
		}
		return a.MarketType < b.MarketType
	})
	return rows
}

// AccuracyPercent is success/total as a percentage rounded to two decimals.
func AccuracyPercent(success, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(success)/float64(total)*100*100) / 100
}

type summaryKey struct {
	stockName string
	stockCode string
}

// BuildSummaryRows groups predictions by stock, sorts by accuracy then volume,
// and appends an overall row computed from the summed counts.
func BuildSummaryRows(predictions []dto.PredictionRecord, overallLabel string) []dto.StockSummary {
	groups := make(map[summaryKey]*dto.StockSummary)
	totalSuccess := 0

	for _, p := range predictions {
		key := summaryKey{stockName: p.StockName, stockCode: p.StockCode}
		g, ok := groups[key]
		if !ok {
			g = &dto.StockSummary{StockName: p.StockName, StockCode: p.StockCode}
			groups[key] = g
		}
		g.TotalRecommendations++
		if p.SuccessLabel() == dto.PredictionSuccess {
			g.SuccessCount++
			totalSuccess++
		}
	}

	rows := make([]dto.StockSummary, 0, len(groups)+1)
	for _, g := range groups {
		g.AccuracyPercent = AccuracyPercent(g.SuccessCount, g.TotalRecommendations)
		rows = append(rows, *g)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.AccuracyPercent != b.AccuracyPercent {
			return a.AccuracyPercent > b.AccuracyPercent
		}
		if a.TotalRecommendations != b.TotalRecommendations {
			return a.TotalRecommendations > b.TotalRecommendations
		}
		if a.StockName != b.StockName {
			return a.StockName < b.StockName
		}
		return a.StockCode < b.StockCode
	})

	rows = append(rows, dto.StockSummary{
		StockName:            overallLabel,
		StockCode:            OverallStockCode,
		TotalRecommendations: len(predictions),
		SuccessCount:         totalSuccess,
		AccuracyPercent:      AccuracyPercent(totalSuccess, len(predictions)),
		Overall:              true,
	})
	return rows
}
