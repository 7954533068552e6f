// Package chat defines the delivery-layer contracts between the inspection
// core and the chat platform, plus the effect executor that bridges them.
// The platform session itself (gateway websocket, REST auth, rate limits)
// lives behind these interfaces.
package chat

import (
	"context"
	"time"

	"github.com/chatsentry/chat-sentry/internal/sentry/domain"
)

// MessageHandler consumes inbound messages delivered by a Transport.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg domain.Message)
}

// Transport connects to the chat platform and feeds every inbound message
// to the handler until the context is cancelled or Stop is called.
type Transport interface {
	Start(ctx context.Context, handler MessageHandler) error
	Stop() error
	Name() string
}

// ChannelMessage describes a channel's most recent message, as reported by
// the platform. Used by the quiet-channel poller.
type ChannelMessage struct {
	ID        string
	AuthorID  string
	Timestamp time.Time
}

// Messenger performs outbound platform operations. All calls may block on
// network I/O and must never be invoked while holding core locks.
type Messenger interface {
	SendMessage(ctx context.Context, channelID, text string) (messageID string, err error)
	ReplyMessage(ctx context.Context, channelID, messageID, text string) (string, error)
	ReactMessage(ctx context.Context, channelID, messageID, emoji string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	LatestMessage(ctx context.Context, channelID string) (ChannelMessage, bool, error)
}

// StickyRecorder is the slice of the sticky registry the executor needs:
// after posting a sticky it records the new message id and deletes whatever
// id it displaced.
type StickyRecorder interface {
	RecordPosted(channelID, messageID string) (displaced string)
}
