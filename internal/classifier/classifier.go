// Package classifier scores financial text with a locally hosted
// finbert-tone model exported to ONNX.
package classifier

import "context"

// Prediction is one text's class probability mass. Values are
// non-negative and sum to 1 within numerical tolerance.
type Prediction struct {
	Positive float64
	Neutral  float64
	Negative float64
}

// Classifier scores batches of texts. Implementations must be safe
// for concurrent use by multiple in-flight requests.
type Classifier interface {
	// Classify returns one prediction per input text, in input order
	Classify(ctx context.Context, texts []string) ([]Prediction, error)

	// Available reports whether the classifier is configured at all,
	// letting callers tell "not configured" apart from a runtime failure
	Available() bool
}

// Config points at a local finbert-tone ONNX export
type Config struct {
	ModelPath    string
	VocabPath    string
	LibraryPath  string // onnxruntime shared library override
	MaxSeqLength int
	BatchSize    int
}

const (
	defaultMaxSeqLength = 256
	defaultBatchSize    = 16
)

func (c Config) withDefaults() Config {
	if c.MaxSeqLength <= 0 {
		c.MaxSeqLength = defaultMaxSeqLength
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	return c
}
