package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_PreservesSentinel(t *testing.T) {
	err := Wrap(ErrSourceUnavailable, "fetching yahoo feed")

	require.Error(t, err)
	assert.True(t, Is(err, ErrSourceUnavailable))
	assert.Equal(t, "fetching yahoo feed: source unavailable", err.Error())
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "context"))
	assert.NoError(t, Wrapf(nil, "context %d", 42))
}

func TestWrapf_FormatsAndPreservesSentinel(t *testing.T) {
	err := Wrapf(ErrClassifierInference, "batch of %d items", 12)

	require.Error(t, err)
	assert.True(t, Is(err, ErrClassifierInference))
	assert.Equal(t, "batch of 12 items: classifier inference failed", err.Error())
}

func TestWrap_TraversesNestedWrapping(t *testing.T) {
	inner := Wrap(ErrRateLimitExceeded, "newsapi")
	outer := Wrapf(inner, "collecting for %s", "TSLA")

	assert.True(t, Is(outer, ErrRateLimitExceeded))
	assert.False(t, Is(outer, ErrSourceUnavailable))
}

func TestValidationError_IsInvalidInput(t *testing.T) {
	err := NewValidationError("ticker", "must not be empty", "")

	assert.True(t, Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "ticker")
	assert.Contains(t, err.Error(), "must not be empty")
}

func TestValidationError_AsTargetType(t *testing.T) {
	var target *ValidationError
	err := Wrap(NewValidationError("limit", "out of range", 99), "parsing query")

	require.True(t, As(err, &target))
	assert.Equal(t, "limit", target.Field)
	assert.Equal(t, 99, target.Value)
}

func TestDomainError_ErrorMessage(t *testing.T) {
	withCause := NewDomainError("COLLECT_FAILED", "no sources responded", ErrNoSources)
	assert.Equal(t, "COLLECT_FAILED: no sources responded: no sources configured", withCause.Error())
	assert.True(t, Is(withCause, ErrNoSources))

	bare := NewDomainError("COLLECT_FAILED", "no sources responded", nil)
	assert.Equal(t, "COLLECT_FAILED: no sources responded", bare.Error())
}

func TestMultiError_CollectsNonNil(t *testing.T) {
	var m MultiError

	m.Add(nil)
	assert.False(t, m.HasErrors())
	assert.NoError(t, m.ToError())

	m.Add(New("yahoo timed out"))
	m.Add(nil)
	m.Add(New("reddit rate limited"))

	require.True(t, m.HasErrors())
	require.Len(t, m.Errors, 2)
	assert.Contains(t, m.ToError().Error(), "multiple errors (2)")
}

func TestMultiError_SingleErrorReadsPlain(t *testing.T) {
	var m MultiError
	m.Add(New("yahoo timed out"))

	assert.Equal(t, "yahoo timed out", m.Error())
}
