package ops

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatsentry/chat-sentry/internal/sentry/common/log"
	"github.com/chatsentry/chat-sentry/internal/sentry/common/metrics"
	"github.com/chatsentry/chat-sentry/internal/sentry/repos/blocklist"
	"github.com/chatsentry/chat-sentry/internal/sentry/repos/sticky"
)

type stubBlocklist struct {
	stats blocklist.RepoStats
}

func (s *stubBlocklist) Stats() blocklist.RepoStats { return s.stats }

type stubSticky struct {
	stats []sticky.ChannelStats
}

func (s *stubSticky) Stats() []sticky.ChannelStats { return s.stats }

func newTestServer(bl blocklist.RepoStats, st []sticky.ChannelStats, reg *prometheus.Registry) *Server {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s := NewServer("127.0.0.1:0", &stubBlocklist{stats: bl}, &stubSticky{stats: st}, reg, log.NewNoopLogger())
	s.startedAt = time.Now()
	return s
}

func TestHealth_OKWithSnapshot(t *testing.T) {
	s := newTestServer(blocklist.RepoStats{Entries: 42, LastReplace: 1700000000}, nil, nil)

	rr := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 42, resp.Entries)
}

func TestHealth_DegradedBeforeFirstReplace(t *testing.T) {
	s := newTestServer(blocklist.RepoStats{}, nil, nil)

	rr := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
}

func TestStats_ReportsRepoAndChannels(t *testing.T) {
	s := newTestServer(
		blocklist.RepoStats{Entries: 3, Hits: 10, Misses: 2, LastReplace: 1700000000},
		[]sticky.ChannelStats{{ChannelID: "help", ActiveSticky: true, LastActivity: 1700000100}},
		nil,
	)

	rr := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp StatsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Blocklist.Entries)
	assert.Equal(t, uint64(10), resp.Blocklist.CacheHits)
	require.Len(t, resp.Channels, 1)
	assert.Equal(t, "help", resp.Channels[0].ChannelID)
	assert.True(t, resp.Channels[0].ActiveSticky)
}

func TestMetrics_ServesRegisteredCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.MessagesInspected.Inc()

	s := newTestServer(blocklist.RepoStats{LastReplace: 1}, nil, reg)

	rr := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "chatsentry_messages_inspected_total 1")
}

func TestServer_StartStop(t *testing.T) {
	s := newTestServer(blocklist.RepoStats{LastReplace: 1}, nil, nil)
	require.NoError(t, s.Start())
	require.NoError(t, s.Stop(t.Context()))
}
