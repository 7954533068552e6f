package chat

import (
	"context"

	"github.com/chatsentry/chat-sentry/internal/sentry/common/log"
	"github.com/chatsentry/chat-sentry/internal/sentry/common/metrics"
	"github.com/chatsentry/chat-sentry/internal/sentry/domain"
)

// Executor applies effect batches through a Messenger, in order and
// best-effort: a failed delivery is logged and the batch continues. State
// still advances on failure (a sticky id stays cleared even when its delete
// was rejected) so the state machine can never wedge on a stale id.
// Sticky counters increment here, after delivery succeeded, not when the
// effect was decided.
type Executor struct {
	messenger Messenger
	sticky    StickyRecorder
	metrics   *metrics.Metrics
	logger    log.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(messenger Messenger, sticky StickyRecorder, m *metrics.Metrics, logger log.Logger) *Executor {
	return &Executor{
		messenger: messenger,
		sticky:    sticky,
		metrics:   m,
		logger:    logger,
	}
}

// Apply executes the effects one by one.
func (e *Executor) Apply(ctx context.Context, effects []domain.Effect) {
	for _, ef := range effects {
		switch ef.Kind {
		case domain.EffectDeleteMessage:
			if err := e.messenger.DeleteMessage(ctx, ef.ChannelID, ef.MessageID); err != nil {
				e.logger.Warn(map[string]any{
					"channel": ef.ChannelID,
					"message": ef.MessageID,
					"error":   err.Error(),
				}, "delete_failed")
			}

		case domain.EffectSendMessage:
			if _, err := e.messenger.SendMessage(ctx, ef.ChannelID, ef.Text); err != nil {
				e.logger.Warn(map[string]any{"channel": ef.ChannelID, "error": err.Error()}, "send_failed")
			}

		case domain.EffectReplyMessage:
			if _, err := e.messenger.ReplyMessage(ctx, ef.ChannelID, ef.MessageID, ef.Text); err != nil {
				e.logger.Warn(map[string]any{"channel": ef.ChannelID, "error": err.Error()}, "reply_failed")
			}

		case domain.EffectReactMessage:
			if err := e.messenger.ReactMessage(ctx, ef.ChannelID, ef.MessageID, ef.Text); err != nil {
				e.logger.Debug(map[string]any{"channel": ef.ChannelID, "error": err.Error()}, "react_failed")
			}

		case domain.EffectDeleteSticky:
			if err := e.messenger.DeleteMessage(ctx, ef.ChannelID, ef.MessageID); err != nil {
				e.logger.Warn(map[string]any{
					"channel": ef.ChannelID,
					"message": ef.MessageID,
					"error":   err.Error(),
				}, "sticky_delete_failed")
			} else {
				e.metrics.StickyDeletes.Inc()
			}

		case domain.EffectPostSticky:
			e.postSticky(ctx, ef)

		default:
			e.logger.Error(map[string]any{"kind": ef.Kind.String()}, "unknown_effect")
		}
	}
}

func (e *Executor) postSticky(ctx context.Context, ef domain.Effect) {
	id, err := e.messenger.SendMessage(ctx, ef.ChannelID, ef.Text)
	if err != nil {
		e.logger.Warn(map[string]any{"channel": ef.ChannelID, "error": err.Error()}, "sticky_post_failed")
		return
	}
	e.metrics.StickyPosts.Inc()
	if displaced := e.sticky.RecordPosted(ef.ChannelID, id); displaced != "" {
		// two posts raced; keep the channel at a single sticky
		if err := e.messenger.DeleteMessage(ctx, ef.ChannelID, displaced); err != nil {
			e.logger.Warn(map[string]any{
				"channel": ef.ChannelID,
				"message": displaced,
				"error":   err.Error(),
			}, "displaced_sticky_delete_failed")
		}
	}
}
