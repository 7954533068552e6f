// Package ops exposes the operational HTTP surface: health, runtime stats,
// and Prometheus metrics. It is a leaf package, nothing in the moderation
// pipeline depends on it.
package ops

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chatsentry/chat-sentry/internal/sentry/common/log"
	"github.com/chatsentry/chat-sentry/internal/sentry/repos/blocklist"
	"github.com/chatsentry/chat-sentry/internal/sentry/repos/sticky"
)

// BlocklistStats is the slice of the blocklist repository the ops surface
// reads.
type BlocklistStats interface {
	Stats() blocklist.RepoStats
}

// StickyStats is the slice of the sticky registry the ops surface reads.
type StickyStats interface {
	Stats() []sticky.ChannelStats
}

// Server serves the ops endpoints on its own listener, separate from the
// chat transport.
type Server struct {
	addr      string
	blocklist BlocklistStats
	sticky    StickyStats
	gatherer  prometheus.Gatherer
	logger    log.Logger
	startedAt time.Time

	server *http.Server
}

// NewServer wires an ops server. It does not listen until Start.
func NewServer(addr string, bl BlocklistStats, st StickyStats, gatherer prometheus.Gatherer, logger log.Logger) *Server {
	return &Server{
		addr:      addr,
		blocklist: bl,
		sticky:    st,
		gatherer:  gatherer,
		logger:    logger,
	}
}

func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth())
	r.Get("/stats", s.handleStats())
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return r
}

// Start begins serving in a background goroutine.
func (s *Server) Start() error {
	s.startedAt = time.Now()
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.buildRouter(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", s.addr)
	if err != nil {
		return errors.New("ops: listen failed: " + err.Error())
	}

	go func() {
		s.logger.Info(map[string]any{"addr": s.addr}, "ops_listening")
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(map[string]any{"error": err.Error()}, "ops_serve_failed")
		}
	}()

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// HealthResponse is the JSON body for GET /healthz.
type HealthResponse struct {
	Status        string `json:"status"` // "ok" or "degraded"
	UptimeSeconds int64  `json:"uptime_seconds"`
	Entries       int    `json:"blocklist_entries"`
	LastReplace   int64  `json:"blocklist_last_replace"`
}

// handleHealth reports ok while a blocklist snapshot is loaded and degraded
// while the repository is still empty.
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		bl := s.blocklist.Stats()
		resp := HealthResponse{
			Status:        "ok",
			UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
			Entries:       bl.Entries,
			LastReplace:   bl.LastReplace,
		}
		if bl.LastReplace == 0 {
			resp.Status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status == "degraded" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// StatsResponse is the JSON body for GET /stats.
type StatsResponse struct {
	Blocklist blocklistStats `json:"blocklist"`
	Channels  []channelStats `json:"channels"`
}

type blocklistStats struct {
	Entries     int    `json:"entries"`
	CacheHits   uint64 `json:"cache_hits"`
	CacheMisses uint64 `json:"cache_misses"`
	Evictions   uint64 `json:"cache_evictions"`
	LastReplace int64  `json:"last_replace"`
}

type channelStats struct {
	ChannelID    string `json:"channel_id"`
	ActiveSticky bool   `json:"active_sticky"`
	LastActivity int64  `json:"last_activity"`
}

func (s *Server) handleStats() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		bl := s.blocklist.Stats()
		resp := StatsResponse{
			Blocklist: blocklistStats{
				Entries:     bl.Entries,
				CacheHits:   bl.Hits,
				CacheMisses: bl.Misses,
				Evictions:   bl.Evictions,
				LastReplace: bl.LastReplace,
			},
			Channels: []channelStats{},
		}
		for _, ch := range s.sticky.Stats() {
			resp.Channels = append(resp.Channels, channelStats{
				ChannelID:    ch.ChannelID,
				ActiveSticky: ch.ActiveSticky,
				LastActivity: ch.LastActivity,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
