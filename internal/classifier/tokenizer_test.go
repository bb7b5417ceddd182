package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/pkg/errors"
)

func testVocab() map[string]int64 {
	return map[string]int64{
		"[PAD]":   0,
		"[UNK]":   1,
		"[CLS]":   2,
		"[SEP]":   3,
		"tesla":   4,
		"sur":     5,
		"##ges":   6,
		"stock":   7,
		"!":       8,
		"cafe":    9,
		"deliver": 10,
		"##ies":   11,
	}
}

func newTestTokenizer(t *testing.T) *wordPieceTokenizer {
	t.Helper()
	tok, err := newWordPieceTokenizer(testVocab())
	require.NoError(t, err)
	return tok
}

func TestNewWordPieceTokenizer_RequiresSpecialTokens(t *testing.T) {
	vocab := testVocab()
	delete(vocab, "[SEP]")

	_, err := newWordPieceTokenizer(vocab)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "[SEP]")
}

func TestBasicTokenize_LowercasesAndSplitsPunctuation(t *testing.T) {
	tokens := basicTokenize("Tesla stock surges!")

	assert.Equal(t, []string{"tesla", "stock", "surges", "!"}, tokens)
}

func TestBasicTokenize_StripsAccents(t *testing.T) {
	tokens := basicTokenize("Café")

	assert.Equal(t, []string{"cafe"}, tokens)
}

func TestBasicTokenize_EmptyInput(t *testing.T) {
	assert.Empty(t, basicTokenize("   "))
}

func TestWordPiece_GreedyLongestMatch(t *testing.T) {
	tok := newTestTokenizer(t)

	assert.Equal(t, []int64{5, 6}, tok.wordPiece("surges"))
	assert.Equal(t, []int64{10, 11}, tok.wordPiece("deliveries"))
	assert.Equal(t, []int64{4}, tok.wordPiece("tesla"))
}

func TestWordPiece_UnmatchableWordIsUnk(t *testing.T) {
	tok := newTestTokenizer(t)

	assert.Equal(t, []int64{tok.unkID}, tok.wordPiece("xylophone"))
}

func TestEncode_WrapsWithClsAndSep(t *testing.T) {
	tok := newTestTokenizer(t)

	ids := tok.Encode("Tesla stock", 16)

	assert.Equal(t, []int64{2, 4, 7, 3}, ids)
}

func TestEncode_TruncatesToMaxLen(t *testing.T) {
	tok := newTestTokenizer(t)

	ids := tok.Encode("tesla stock tesla stock tesla stock tesla stock", 5)

	require.Len(t, ids, 5)
	assert.Equal(t, tok.clsID, ids[0])
	assert.Equal(t, tok.sepID, ids[len(ids)-1])
}

func TestSoftmax3_SumsToOne(t *testing.T) {
	a, b, c := softmax3(1.3, -0.7, 2.1)

	assert.InDelta(t, 1.0, a+b+c, 1e-12)
	assert.Greater(t, c, a)
	assert.Greater(t, a, b)
}

func TestSoftmax3_EqualLogitsAreUniform(t *testing.T) {
	a, b, c := softmax3(0.5, 0.5, 0.5)

	assert.InDelta(t, 1.0/3, a, 1e-12)
	assert.InDelta(t, 1.0/3, b, 1e-12)
	assert.InDelta(t, 1.0/3, c, 1e-12)
}

func TestSoftmax3_LargeLogitsStayFinite(t *testing.T) {
	a, b, c := softmax3(1000, 999, 998)

	assert.False(t, a != a || b != b || c != c, "softmax produced NaN")
	assert.InDelta(t, 1.0, a+b+c, 1e-12)
}

func TestLazy_UnconfiguredIsUnavailable(t *testing.T) {
	lazy := NewLazy(Config{})

	assert.False(t, lazy.Available())

	_, err := lazy.Classify(context.Background(), []string{"some text"})
	assert.ErrorIs(t, err, errors.ErrClassifierUnavailable)
}

func TestLazy_MissingModelFilesFailLoad(t *testing.T) {
	lazy := NewLazy(Config{
		ModelPath: "/nonexistent/finbert.onnx",
		VocabPath: "/nonexistent/vocab.txt",
	})

	assert.True(t, lazy.Available())

	_, err := lazy.Classify(context.Background(), []string{"some text"})
	assert.ErrorIs(t, err, errors.ErrClassifierUnavailable)
}
