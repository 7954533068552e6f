// Package fetch downloads the remote blocklist feed to local disk.
// The download lands in a temp file and is promoted with an atomic rename,
// so the canonical path is never missing or truncated.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/chatsentry/chat-sentry/internal/sentry/common/log"
)

// Fetcher is the transport contract the refresher depends on: download the
// resource at url and leave it at destPath on success.
type Fetcher interface {
	Fetch(ctx context.Context, url, destPath string) error
}

// HTTPFetcher implements Fetcher over plain HTTP(S) GET.
type HTTPFetcher struct {
	client  *http.Client
	logger  log.Logger
	retries uint
}

// NewHTTPFetcher creates an HTTPFetcher. Every attempt is bounded by
// timeout; a hung download counts as a normal fetch failure.
func NewHTTPFetcher(timeout time.Duration, retries uint, logger log.Logger) *HTTPFetcher {
	if retries == 0 {
		retries = 1
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		retries: retries,
	}
}

// Fetch downloads url into destPath. The body is written to destPath+".tmp"
// and renamed over destPath only after the download completed, so a failure
// part way through leaves the previous file untouched.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, destPath string) error {
	tmpPath := destPath + ".tmp"

	err := retry.Do(
		func() error {
			return f.download(ctx, url, tmpPath)
		},
		retry.Attempts(f.retries),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.MaxJitter(5*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			f.logger.Warn(map[string]any{"attempt": n + 1, "url": url, "error": err.Error()}, "blocklist_download_retry")
		}),
	)
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("downloading %s: %w", url, err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("promoting %s: %w", tmpPath, err)
	}
	return nil
}

func (f *HTTPFetcher) download(ctx context.Context, url, tmpPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("building request: %w", err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	out, err := os.Create(tmpPath)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("creating temp file: %w", err))
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("writing body: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	return nil
}

var _ Fetcher = (*HTTPFetcher)(nil)
