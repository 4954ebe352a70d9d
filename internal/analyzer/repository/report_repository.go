package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang-stock-sentiment/internal/analyzer/dto"

	"golang.org/x/text/transform"
)

// DetailHeader and SummaryHeader are the header rows of the two report files.
var (
	DetailHeader  = []string{"Date", "Stock", "Code", "Type", "Positive_Ratio", "Close", "Prev_Close", "Prediction_Success"}
	SummaryHeader = []string{"Stock", "Code", "Total_Rec", "Success_Count", "Accuracy(%)"}
)

// ReportRepository persists report tables.
type ReportRepository interface {
	WriteDetail(ctx context.Context, path string, rows []dto.PredictionRecord) error
	WriteSummary(ctx context.Context, path string, rows []dto.StockSummary) error
}

// NewCSVReportRepository writes reports as BOM-prefixed UTF-8 CSV files.
func NewCSVReportRepository() ReportRepository {
	return &csvReportRepository{}
}

type csvReportRepository struct{}

func (r *csvReportRepository) WriteDetail(ctx context.Context, path string, rows []dto.PredictionRecord) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, DetailHeader)
	for _, row := range rows {
		records = append(records, []string{
			row.Date.Format(dto.DateLayout),
			row.StockName,
			row.StockCode,
			row.MarketType,
			strconv.FormatFloat(row.PositiveRatio, 'f', -1, 64),
			row.Close.String(),
			row.PrevClose.String(),
			row.SuccessLabel(),
		})
	}
	return writeCSV(ctx, path, records)
}

func (r *csvReportRepository) WriteSummary(ctx context.Context, path string, rows []dto.StockSummary) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, SummaryHeader)
	for _, row := range rows {
		records = append(records, []string{
			row.StockName,
			row.StockCode,
			strconv.Itoa(row.TotalRecommendations),
			strconv.Itoa(row.SuccessCount),
			strconv.FormatFloat(row.AccuracyPercent, 'f', 2, 64),
		})
	}
	return writeCSV(ctx, path, records)
}

// writeCSV writes into a temporary file next to path and renames it, so a
// reader never sees a half-written report.
func writeCSV(ctx context.Context, path string, records [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp report file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set report permissions: %w", err)
	}

	encoded := transform.NewWriter(tmp, reportEncoder())
	w := csv.NewWriter(encoded)
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report rows: %w", err)
	}
	if err := encoded.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush report encoder: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}
