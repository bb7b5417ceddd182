package classifier

import (
	"context"
	"math"
	"sync"
	"time"

	ort "github.com/yalue/onnxruntime_go"

	"hermes/internal/metrics"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// FinBERT runs the finbert-tone sequence classifier through ONNX
// Runtime. One session serves the whole process: tokenization runs
// concurrently, session.Run calls are serialized behind a mutex.
type FinBERT struct {
	session   *ort.DynamicAdvancedSession
	tokenizer *wordPieceTokenizer
	maxSeqLen int
	batchSize int
	log       *logger.Logger

	mu sync.Mutex
}

var _ Classifier = (*FinBERT)(nil)

// NewFinBERT loads the model and vocabulary from disk
func NewFinBERT(cfg Config) (*FinBERT, error) {
	if cfg.ModelPath == "" {
		return nil, errors.ErrClassifierUnavailable
	}
	cfg = cfg.withDefaults()

	tokenizer, err := loadWordPieceTokenizer(cfg.VocabPath)
	if err != nil {
		return nil, err
	}

	// SetSharedLibraryPath must run before environment init
	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, errors.Wrap(err, "failed to initialize ONNX runtime")
		}
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session options")
	}
	defer options.Destroy()

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"logits"}, options)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load finbert model")
	}

	return &FinBERT{
		session:   session,
		tokenizer: tokenizer,
		maxSeqLen: cfg.MaxSeqLength,
		batchSize: cfg.BatchSize,
		log:       logger.Named("finbert"),
	}, nil
}

// Available reports whether the session is loaded
func (f *FinBERT) Available() bool {
	return f.session != nil
}

// Classify scores texts in fixed-size batches. A context cancellation
// between batches stops the run; the caller decides how to degrade.
func (f *FinBERT) Classify(ctx context.Context, texts []string) ([]Prediction, error) {
	if len(texts) == 0 {
		return []Prediction{}, nil
	}

	preds := make([]Prediction, 0, len(texts))
	for start := 0; start < len(texts); start += f.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+f.batchSize, len(texts))
		batch, err := f.runBatch(texts[start:end])
		if err != nil {
			return nil, err
		}
		preds = append(preds, batch...)
	}
	return preds, nil
}

// runBatch tokenizes, pads and runs one batch through the session.
// finbert-tone emits logits in label order [neutral, positive, negative].
func (f *FinBERT) runBatch(texts []string) ([]Prediction, error) {
	start := time.Now()

	encoded := make([][]int64, len(texts))
	seqLen := 0
	for i, text := range texts {
		encoded[i] = f.tokenizer.Encode(text, f.maxSeqLen)
		if len(encoded[i]) > seqLen {
			seqLen = len(encoded[i])
		}
	}

	batch := len(texts)
	inputIDs := make([]int64, batch*seqLen)
	attentionMask := make([]int64, batch*seqLen)
	tokenTypeIDs := make([]int64, batch*seqLen)
	for i, ids := range encoded {
		offset := i * seqLen
		for j, id := range ids {
			inputIDs[offset+j] = id
			attentionMask[offset+j] = 1
		}
		for j := len(ids); j < seqLen; j++ {
			inputIDs[offset+j] = f.tokenizer.padID
		}
	}

	shape := ort.NewShape(int64(batch), int64(seqLen))
	idsTensor, err := ort.NewTensor(shape, inputIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create input_ids tensor")
	}
	defer idsTensor.Destroy()

	maskTensor, err := ort.NewTensor(shape, attentionMask)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create attention_mask tensor")
	}
	defer maskTensor.Destroy()

	typeTensor, err := ort.NewTensor(shape, tokenTypeIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create token_type_ids tensor")
	}
	defer typeTensor.Destroy()

	logits := make([]float32, batch*3)
	logitsTensor, err := ort.NewTensor(ort.NewShape(int64(batch), 3), logits)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create logits tensor")
	}
	defer logitsTensor.Destroy()

	f.mu.Lock()
	err = f.session.Run(
		[]ort.Value{idsTensor, maskTensor, typeTensor},
		[]ort.Value{logitsTensor},
	)
	f.mu.Unlock()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrClassifierInference, "session run: %v", err)
	}

	metrics.ObserveClassifierInference(batch, time.Since(start))

	preds := make([]Prediction, batch)
	for i := 0; i < batch; i++ {
		neu, pos, neg := softmax3(
			float64(logits[i*3+0]),
			float64(logits[i*3+1]),
			float64(logits[i*3+2]),
		)
		preds[i] = Prediction{Positive: pos, Neutral: neu, Negative: neg}
	}
	return preds, nil
}

// Close releases the ONNX session
func (f *FinBERT) Close() {
	if f.session != nil {
		f.session.Destroy()
		f.session = nil
	}
}

// softmax3 converts three logits into probabilities, shifted by the
// max for numerical stability
func softmax3(l0, l1, l2 float64) (float64, float64, float64) {
	m := math.Max(l0, math.Max(l1, l2))
	e0 := math.Exp(l0 - m)
	e1 := math.Exp(l1 - m)
	e2 := math.Exp(l2 - m)
	sum := e0 + e1 + e2
	return e0 / sum, e1 / sum, e2 / sum
}
