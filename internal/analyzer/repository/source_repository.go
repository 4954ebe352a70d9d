package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/entity"

	"gorm.io/gorm"
)

// ErrSourceUnavailable wraps every failure to read an input table.
var ErrSourceUnavailable = errors.New("source table unavailable")

// Column names written by the upstream scraper.
const (
	ColumnDate      = "Date"
	ColumnCode      = "Code"
	ColumnStock     = "Stock"
	ColumnType      = "Type"
	ColumnSentiment = "sentiment_label"
	ColumnOpen      = "Open"
	ColumnHigh      = "High"
	ColumnLow       = "Low"
	ColumnClose     = "Close"
	ColumnVolume    = "Volume"
)

// SourceRepository loads the two raw input tables.
type SourceRepository interface {
	LoadPosts(ctx context.Context) ([]dto.RawPost, error)
	LoadTicks(ctx context.Context) ([]dto.RawTick, error)
}

// NewCSVSourceRepository reads the tables from delimited files with a header row.
func NewCSVSourceRepository(communityFile, priceFile, encodingName string) (SourceRepository, error) {
	if _, err := normalizeEncoding(encodingName); err != nil {
		return nil, err
	}
	return &csvSourceRepository{
		communityFile: communityFile,
		priceFile:     priceFile,
		encodingName:  encodingName,
	}, nil
}

type csvSourceRepository struct {
	communityFile string
	priceFile     string
	encodingName  string
}

func (r *csvSourceRepository) LoadPosts(ctx context.Context) ([]dto.RawPost, error) {
	var posts []dto.RawPost
	err := r.readTable(ctx, r.communityFile, []string{ColumnDate, ColumnCode, ColumnStock, ColumnType, ColumnSentiment}, func(get func(string) string) {
		posts = append(posts, dto.RawPost{
			Date:           get(ColumnDate),
			Code:           get(ColumnCode),
			Stock:          get(ColumnStock),
			Type:           get(ColumnType),
			SentimentLabel: get(ColumnSentiment),
		})
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *csvSourceRepository) LoadTicks(ctx context.Context) ([]dto.RawTick, error) {
	var ticks []dto.RawTick
	err := r.readTable(ctx, r.priceFile, []string{ColumnDate, ColumnCode, ColumnClose}, func(get func(string) string) {
		ticks = append(ticks, dto.RawTick{
			Date:   get(ColumnDate),
			Code:   get(ColumnCode),
			Open:   get(ColumnOpen),
			High:   get(ColumnHigh),
			Low:    get(ColumnLow),
			Close:  get(ColumnClose),
			Volume: get(ColumnVolume),
		})
	})
	if err != nil {
		return nil, err
	}
	return ticks, nil
}

func (r *csvSourceRepository) readTable(ctx context.Context, path string, required []string, emit func(get func(string) string)) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	content, err := decodeSource(r.encodingName, raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("%w: failed to read header of %s: %v", ErrSourceUnavailable, path, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return fmt.Errorf("%w: %s has no %q column", ErrSourceUnavailable, path, name)
		}
	}

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s line %d: %v", ErrSourceUnavailable, path, line, err)
		}
		emit(func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		})
	}
}

// NewPostgresSourceRepository reads the tables from the community_posts and
// stock_price_ticks staging tables.
func NewPostgresSourceRepository(db *gorm.DB) SourceRepository {
	return &postgresSourceRepository{db: db}
}

type postgresSourceRepository struct {
	db *gorm.DB
}

func (r *postgresSourceRepository) LoadPosts(ctx context.Context) ([]dto.RawPost, error) {
	var rows []entity.CommunityPost
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: community_posts: %v", ErrSourceUnavailable, err)
	}
	posts := make([]dto.RawPost, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, dto.RawPost{
			Date:           row.PostedAt,
			Code:           row.StockCode,
			Stock:          row.StockName,
			Type:           row.MarketType,
			SentimentLabel: row.SentimentLabel,
		})
	}
	return posts, nil
}

func (r *postgresSourceRepository) LoadTicks(ctx context.Context) ([]dto.RawTick, error) {
	var rows []entity.StockPriceTick
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: stock_price_ticks: %v", ErrSourceUnavailable, err)
	}
	ticks := make([]dto.RawTick, 0, len(rows))
	for _, row := range rows {
		ticks = append(ticks, dto.RawTick{
			Date:   row.TradedAt,
			Code:   row.StockCode,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}
	return ticks, nil
}
