package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/pkg/common"

	"github.com/redis/go-redis/v9"
)

// ResultPublisherRepository makes the winning threshold of a run available to
// other services.
type ResultPublisherRepository interface {
	Publish(ctx context.Context, event dto.AnalysisCompletedEvent) error
}

// NewRedisResultPublisherRepository publishes to a Redis key and stream.
func NewRedisResultPublisherRepository(client *redis.Client, streamMaxLen int64) ResultPublisherRepository {
	return &redisResultPublisherRepository{client: client, streamMaxLen: streamMaxLen}
}

type redisResultPublisherRepository struct {
	client       *redis.Client
	streamMaxLen int64
}

// Publish stores the event under the best threshold key and appends it to the
// completion stream.
func (r *redisResultPublisherRepository) Publish(ctx context.Context, event dto.AnalysisCompletedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis event: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, common.RedisKeyBestThreshold, payload, 0)
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamAnalysisCompleted,
		Values: map[string]interface{}{common.RedisStreamPayloadField: payload},
		MaxLen: r.streamMaxLen,
		Approx: true,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish analysis event: %w", err)
	}
	return nil
}
