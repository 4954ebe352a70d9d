package common

const (
	RedisKeyBestThreshold        = "sentiment:best_threshold"
	RedisStreamAnalysisCompleted = "sentiment.analysis.completed"
	RedisStreamPayloadField      = "payload"
)
