package service

import (
	"context"
	"errors"
	"math"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// ErrNoViableResult is returned when no threshold of the grid joins a single row.
var ErrNoViableResult = errors.New("no threshold produced a matched recommendation")

const gridEpsilon = 1e-9

// ThresholdSearchService finds the sentiment threshold with the best composite score.
type ThresholdSearchService interface {
	Thresholds() []float64
	Search(ctx context.Context, stats []dto.DailySentimentStat, movements []dto.DailyPriceMovement) (*dto.SearchResult, error)
}

// NewThresholdSearchService creates a search service over the configured grid.
func NewThresholdSearchService(grid config.Grid, log *logger.Logger) ThresholdSearchService {
	workers := grid.Workers
	if workers < 1 {
		workers = 1
	}
	return &thresholdSearchService{
		thresholds: BuildThresholdGrid(grid.LowerBound, grid.UpperBound, grid.Step),
		workers:    workers,
		log:        log,
	}
}

type thresholdSearchService struct {
	thresholds []float64
	workers    int
	log        *logger.Logger
}

type candidate struct {
	evaluation  dto.ThresholdEvaluation
	predictions []dto.PredictionRecord
	matched     bool
}

// RoundThreshold rounds to two decimals so grid values are stable keys.
func RoundThreshold(v float64) float64 {
	return math.Round(v*100) / 100
}

// BuildThresholdGrid returns lower, lower+step, ... up to and including upper,
// each rounded to two decimals, ascending and without duplicates.
func BuildThresholdGrid(lower, upper, step float64) []float64 {
	if step <= 0 || lower > upper {
		return nil
	}
	n := int(math.Floor((upper-lower)/step + gridEpsilon))
	grid := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		th := RoundThreshold(lower + float64(i)*step)
		if len(grid) > 0 && grid[len(grid)-1] == th {
			continue
		}
		grid = append(grid, th)
	}
	return grid
}

// CompositeScore weights accuracy by the base-10 log of the matched row count.
func CompositeScore(accuracy float64, matched int) float64 {
	if matched <= 0 {
		return 0
	}
	return accuracy * math.Log10(float64(matched))
}

func (s *thresholdSearchService) Thresholds() []float64 {
	out := make([]float64, len(s.thresholds))
	copy(out, s.thresholds)
	return out
}

// Search evaluates every threshold and keeps the strictly best score. Candidates
// are reduced in ascending threshold order, so the lowest threshold wins ties.
func (s *thresholdSearchService) Search(ctx context.Context, stats []dto.DailySentimentStat, movements []dto.DailyPriceMovement) (*dto.SearchResult, error) {
	index := make(map[dayKey]dto.DailyPriceMovement, len(movements))
	for _, m := range movements {
		index[dayKey{stockCode: m.StockCode, date: m.Date.Format(dto.DateLayout)}] = m
	}

	candidates := make([]candidate, len(s.thresholds))
	if s.workers == 1 {
		for i, th := range s.thresholds {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			candidates[i] = evaluateThreshold(th, stats, index)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for i, th := range s.thresholds {
			i, th := i, th
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				candidates[i] = evaluateThreshold(th, stats, index)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	result := &dto.SearchResult{}
	best := -1
	for i, c := range candidates {
		if !c.matched {
			s.log.DebugContext(ctx, "Threshold skipped, no matched rows", logger.FloatField("threshold", c.evaluation.Threshold))
			continue
		}
		s.log.DebugContext(ctx, "Threshold evaluated",
			logger.FloatField("threshold", c.evaluation.Threshold),
			logger.IntField("matched_rows", c.evaluation.MatchedRowCount),
			logger.FloatField("accuracy", c.evaluation.Accuracy),
			logger.FloatField("score", c.evaluation.Score),
		)
		result.Evaluations = append(result.Evaluations, c.evaluation)
		if best < 0 || c.evaluation.Score > candidates[best].evaluation.Score {
			best = i
		}
	}

	if best < 0 {
		return nil, ErrNoViableResult
	}

	result.Best = candidates[best].evaluation
	result.Predictions = candidates[best].predictions
	return result, nil
}

func evaluateThreshold(threshold float64, stats []dto.DailySentimentStat, index map[dayKey]dto.DailyPriceMovement) candidate {
	c := candidate{evaluation: dto.ThresholdEvaluation{Threshold: threshold}}

	for _, st := range stats {
		if !(st.PositiveRatio > threshold) {
			continue
		}
		m, ok := index[dayKey{stockCode: st.StockCode, date: st.Date.Format(dto.DateLayout)}]
		if !ok {
			continue
		}
		c.predictions = append(c.predictions, dto.PredictionRecord{
			Date:          st.Date,
			StockName:     st.StockName,
			StockCode:     st.StockCode,
			MarketType:    st.MarketType,
			PositiveRatio: st.PositiveRatio,
			Close:         m.Close,
			PrevClose:     m.PrevClose,
			IsUp:          m.IsUp,
		})
		if m.IsUp {
			c.evaluation.SuccessCount++
		}
	}

	n := len(c.predictions)
	if n == 0 {
		return c
	}
	c.matched = true
	c.evaluation.MatchedRowCount = n
	c.evaluation.Accuracy = float64(c.evaluation.SuccessCount) / float64(n)
	c.evaluation.Score = CompositeScore(c.evaluation.Accuracy, n)
	return c
}
