package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersAllCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.MessagesInspected.Inc()
	m.MessagesInspected.Inc()
	m.MessagesBlocked.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MessagesInspected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesBlocked))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RefreshFailure))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 7)
}

func TestNewUnregistered_IsIsolated(t *testing.T) {
	a := NewUnregistered()
	b := NewUnregistered()
	a.StickyPosts.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.StickyPosts))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.StickyPosts))
}
