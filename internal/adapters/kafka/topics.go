package kafka

// Topic definitions for event streaming
const (
	// Sentiment results, one message per computed ticker aggregation,
	// keyed by ticker. Consumed by downstream dashboards and alerting.
	TopicSentimentResults = "sentiment.results"
)
