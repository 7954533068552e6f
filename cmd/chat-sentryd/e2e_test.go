package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatsentry/chat-sentry/internal/sentry/common/clock"
	"github.com/chatsentry/chat-sentry/internal/sentry/common/log"
	"github.com/chatsentry/chat-sentry/internal/sentry/common/metrics"
	"github.com/chatsentry/chat-sentry/internal/sentry/domain"
	"github.com/chatsentry/chat-sentry/internal/sentry/gateways/chat"
	"github.com/chatsentry/chat-sentry/internal/sentry/repos/blocklist"
	"github.com/chatsentry/chat-sentry/internal/sentry/repos/blocklist/bloom"
	"github.com/chatsentry/chat-sentry/internal/sentry/repos/blocklist/lru"
	"github.com/chatsentry/chat-sentry/internal/sentry/repos/sticky"
	"github.com/chatsentry/chat-sentry/internal/sentry/services/inspector"
)

// runPipeline feeds scripted console lines through the full inspection
// pipeline and returns everything the console printed.
func runPipeline(t *testing.T, reg *sticky.Registry, entries []string, input string) string {
	t.Helper()

	logger := log.NewNoopLogger()

	cache, err := lru.New(64)
	require.NoError(t, err)
	repo := blocklist.NewRepository(cache, bloom.NewFactory(), 0.01, domain.MatchDomain, logger)
	repo.Replace(blocklist.NewSnapshot(entries))

	out := &bytes.Buffer{}
	console := chat.NewConsole(strings.NewReader(input), out, logger)
	executor := chat.NewExecutor(console, reg, metrics.NewUnregistered(), logger)

	ins := inspector.NewInspector(inspector.InspectorOptions{
		Blocklist:     repo,
		Sticky:        reg,
		Clock:         &clock.MockClock{CurrentTime: time.Unix(1700000000, 0)},
		Metrics:       metrics.NewUnregistered(),
		Logger:        logger,
		HelpChannels:  []string{"help"},
		StickyText:    "check the pins",
		ReplyRateHelp: 0,
		ReplyRate:     0,
	})

	require.NoError(t, console.Start(context.Background(), inspector.NewHandler(ins, executor)))
	require.NoError(t, console.Stop())
	return out.String()
}

func TestE2E_BlockedLinkDeletedAndWarned(t *testing.T) {
	out := runPipeline(t,
		sticky.NewRegistry(120*time.Second),
		[]string{"evil.example"},
		"general|alice|check out https://evil.example/login\n",
	)

	assert.Contains(t, out, "delete console-1")
	assert.Contains(t, out, "bad link")
	assert.Contains(t, out, "<@alice>")
}

func TestE2E_CleanMessagePassesSilently(t *testing.T) {
	out := runPipeline(t,
		sticky.NewRegistry(120*time.Second),
		[]string{"evil.example"},
		"general|alice|check out https://good.example\n",
	)

	assert.Empty(t, out)
}

func TestE2E_StickyHandOffDeletesOldSticky(t *testing.T) {
	reg := sticky.NewRegistry(120 * time.Second)
	reg.OnMessage("help", "alice", time.Unix(1699999990, 0))
	reg.RecordPosted("help", "sticky-0")

	out := runPipeline(t, reg, nil, "help|bob|how do I install this?\n")

	assert.Contains(t, out, "delete sticky-0")
	assert.Empty(t, reg.ActiveID("help"))
}
