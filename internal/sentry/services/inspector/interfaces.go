package inspector

import (
	"context"
	"time"

	"github.com/chatsentry/chat-sentry/internal/sentry/domain"
)

// Blocklist answers whether a single message token resolves to a blocked
// entry.
type Blocklist interface {
	Decide(token string) domain.BlockDecision
}

// Sticky is the message-side surface of the sticky registry: every help
// channel message is reported and the registry answers with the sticky
// work it implies.
type Sticky interface {
	OnMessage(channelID, authorID string, now time.Time) domain.StickyAction
}

// EffectApplier executes an effect batch against the chat platform.
type EffectApplier interface {
	Apply(ctx context.Context, effects []domain.Effect)
}
