package blocklist

import "github.com/chatsentry/chat-sentry/internal/sentry/domain"

// NoopBlocklist never blocks anything. Useful when a deployment runs the
// sticky controller without link protection.
type NoopBlocklist struct{}

func (n *NoopBlocklist) Decide(string) domain.BlockDecision {
	return domain.EmptyDecision()
}

func (n *NoopBlocklist) Replace(Snapshot) {}

func (n *NoopBlocklist) Stats() RepoStats { return RepoStats{} }

var _ Repository = (*NoopBlocklist)(nil)
