package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/news"
)

func TestFilterTrusted_DropsBelowFloor(t *testing.T) {
	table := news.DefaultTrustTable().Merge(map[string]float64{"junknews.biz": 0.4})
	items := []news.Item{
		{ID: "a", Source: "reuters.com"},
		{ID: "b", Source: "junknews.biz"},
		{ID: "c", Source: "never-seen.net"}, // fallback 0.75
	}

	out := FilterTrusted(items, table, DefaultMinTrust)

	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
}

func TestFilterTrusted_FloorIsInclusive(t *testing.T) {
	// msn.com sits exactly on the 0.6 floor and stays in
	items := []news.Item{{ID: "msn", Source: "msn.com"}}

	out := FilterTrusted(items, news.DefaultTrustTable(), DefaultMinTrust)

	assert.Len(t, out, 1)
}

func TestFilterTrusted_EmptyInput(t *testing.T) {
	out := FilterTrusted(nil, news.DefaultTrustTable(), DefaultMinTrust)

	assert.NotNil(t, out)
	assert.Empty(t, out)
}
