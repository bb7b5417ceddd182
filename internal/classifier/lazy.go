package classifier

import (
	"context"
	"sync"

	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// Lazy defers model loading until the first classification call so
// the service can boot without the ONNX runtime or model present.
// The underlying model loads exactly once, shared by all requests.
type Lazy struct {
	cfg Config

	once  sync.Once
	model *FinBERT
	err   error
}

var _ Classifier = (*Lazy)(nil)

// NewLazy wraps a FinBERT config without touching the filesystem
func NewLazy(cfg Config) *Lazy {
	return &Lazy{cfg: cfg}
}

// Available reports whether a model path is configured
func (l *Lazy) Available() bool {
	return l.cfg.ModelPath != ""
}

// Classify loads the model on first use, then delegates to it
func (l *Lazy) Classify(ctx context.Context, texts []string) ([]Prediction, error) {
	if !l.Available() {
		return nil, errors.ErrClassifierUnavailable
	}

	l.once.Do(func() {
		l.model, l.err = NewFinBERT(l.cfg)
		if l.err != nil {
			logger.Get().Warnw("finbert load failed, falling back to neutral sentiment",
				"model_path", l.cfg.ModelPath,
				"error", l.err,
			)
			return
		}
		logger.Get().Infow("finbert model loaded",
			"model_path", l.cfg.ModelPath,
			"max_seq_length", l.model.maxSeqLen,
			"batch_size", l.model.batchSize,
		)
	})

	if l.err != nil {
		return nil, errors.Wrapf(errors.ErrClassifierUnavailable, "model load: %v", l.err)
	}
	return l.model.Classify(ctx, texts)
}

// Close releases the loaded model, if one was ever loaded
func (l *Lazy) Close() {
	if l.model != nil {
		l.model.Close()
	}
}
