// Package refresher keeps the blocklist snapshot current: it downloads the
// feed on a schedule, parses it, and swaps it into the repository. A failed
// cycle leaves the previous snapshot serving.
package refresher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/chatsentry/chat-sentry/internal/sentry/common/log"
	"github.com/chatsentry/chat-sentry/internal/sentry/common/metrics"
	"github.com/chatsentry/chat-sentry/internal/sentry/repos/blocklist"
)

// Fetcher downloads the feed to a local path.
type Fetcher interface {
	Fetch(ctx context.Context, url, destPath string) error
}

// Target receives the freshly parsed snapshot.
type Target interface {
	Replace(s blocklist.Snapshot)
}

type Refresher struct {
	fetcher Fetcher
	target  Target
	url     string
	path    string
	metrics *metrics.Metrics
	logger  log.Logger

	cron    *cron.Cron
	running atomic.Bool
}

type RefresherOptions struct {
	Fetcher Fetcher
	Target  Target
	URL     string
	Path    string
	Metrics *metrics.Metrics
	Logger  log.Logger
}

func NewRefresher(opts RefresherOptions) *Refresher {
	return &Refresher{
		fetcher: opts.Fetcher,
		target:  opts.Target,
		url:     opts.URL,
		path:    opts.Path,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
}

// LoadLocal installs whatever is already on disk, without fetching. Used at
// startup so the daemon serves the last downloaded list while the first
// refresh runs. A missing file is not an error, the repository just stays
// empty until the first successful refresh.
func (r *Refresher) LoadLocal() error {
	snap, err := blocklist.LoadFile(r.path, r.logger)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.Warn(map[string]any{"path": r.path}, "no_local_blocklist")
			return nil
		}
		return fmt.Errorf("load local blocklist: %w", err)
	}
	r.target.Replace(snap)
	return nil
}

// RunOnce performs one full refresh cycle: fetch, parse, swap. On any
// failure the existing snapshot is left untouched. An empty feed is valid
// and installs an empty snapshot.
func (r *Refresher) RunOnce(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		r.logger.Warn(nil, "refresh_already_running")
		return nil
	}
	defer r.running.Store(false)

	if err := r.fetcher.Fetch(ctx, r.url, r.path); err != nil {
		r.metrics.RefreshFailure.Inc()
		r.logger.Error(map[string]any{"url": r.url, "error": err.Error()}, "refresh_fetch_failed")
		return fmt.Errorf("fetch blocklist: %w", err)
	}

	snap, err := blocklist.LoadFile(r.path, r.logger)
	if err != nil {
		r.metrics.RefreshFailure.Inc()
		r.logger.Error(map[string]any{"path": r.path, "error": err.Error()}, "refresh_parse_failed")
		return fmt.Errorf("parse blocklist: %w", err)
	}

	r.target.Replace(snap)
	r.metrics.RefreshSuccess.Inc()
	r.logger.Info(map[string]any{"entries": snap.Len()}, "blocklist_refreshed")
	return nil
}

// Start schedules RunOnce every period seconds and kicks off an immediate
// first cycle in the background.
func (r *Refresher) Start(ctx context.Context, periodSeconds int) error {
	if r.cron != nil {
		return fmt.Errorf("refresher already started")
	}

	c := cron.New()
	spec := fmt.Sprintf("@every %ds", periodSeconds)
	if _, err := c.AddFunc(spec, func() {
		if err := r.RunOnce(ctx); err != nil {
			r.logger.Warn(map[string]any{"error": err.Error()}, "scheduled_refresh_failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}

	r.cron = c
	c.Start()

	go func() {
		if err := r.RunOnce(ctx); err != nil {
			r.logger.Warn(map[string]any{"error": err.Error()}, "initial_refresh_failed")
		}
	}()
	return nil
}

// Stop halts the schedule and waits for a running cycle to finish.
func (r *Refresher) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}
