// Package keeper runs the quiet-channel poller: on a fixed interval it asks
// the platform for each help channel's newest message and reposts the sticky
// when the channel has gone quiet.
package keeper

import (
	"context"
	"time"

	"github.com/chatsentry/chat-sentry/internal/sentry/common/clock"
	"github.com/chatsentry/chat-sentry/internal/sentry/common/log"
	"github.com/chatsentry/chat-sentry/internal/sentry/domain"
	"github.com/chatsentry/chat-sentry/internal/sentry/gateways/chat"
)

// LatestSource reports a channel's most recent message.
type LatestSource interface {
	LatestMessage(ctx context.Context, channelID string) (chat.ChannelMessage, bool, error)
}

// QuietSticky is the poller-side surface of the sticky registry.
type QuietSticky interface {
	OnQuiet(channelID, latestID string, latestAt, now time.Time) domain.StickyAction
}

// EffectApplier executes an effect batch against the chat platform.
type EffectApplier interface {
	Apply(ctx context.Context, effects []domain.Effect)
}

type Keeper struct {
	source   LatestSource
	sticky   QuietSticky
	applier  EffectApplier
	clock    clock.Clock
	logger   log.Logger
	channels []string
	text     string
	interval time.Duration

	done chan struct{}
}

type KeeperOptions struct {
	Source       LatestSource
	Sticky       QuietSticky
	Applier      EffectApplier
	Clock        clock.Clock
	Logger       log.Logger
	HelpChannels []string
	StickyText   string
	Interval     time.Duration
}

func NewKeeper(opts KeeperOptions) *Keeper {
	return &Keeper{
		source:   opts.Source,
		sticky:   opts.Sticky,
		applier:  opts.Applier,
		clock:    opts.Clock,
		logger:   opts.Logger,
		channels: opts.HelpChannels,
		text:     opts.StickyText,
		interval: opts.Interval,
	}
}

// Poll runs one pass over every help channel.
func (k *Keeper) Poll(ctx context.Context) {
	now := k.clock.Now()
	for _, channelID := range k.channels {
		latest, ok, err := k.source.LatestMessage(ctx, channelID)
		if err != nil {
			k.logger.Warn(map[string]any{"channel": channelID, "error": err.Error()}, "latest_message_failed")
			continue
		}
		if !ok {
			continue
		}

		act := k.sticky.OnQuiet(channelID, latest.ID, latest.Timestamp, now)
		if act.IsZero() {
			continue
		}

		var effects []domain.Effect
		if act.DeleteID != "" {
			effects = append(effects, domain.DeleteSticky(channelID, act.DeleteID))
		}
		if act.Post {
			effects = append(effects, domain.PostSticky(channelID, k.text))
		}
		k.applier.Apply(ctx, effects)
	}
}

// Start launches the poll loop. It returns immediately; the loop stops when
// the context is cancelled.
func (k *Keeper) Start(ctx context.Context) {
	k.done = make(chan struct{})
	ticker := time.NewTicker(k.interval)

	go func() {
		defer close(k.done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				k.Poll(ctx)
			}
		}
	}()
}

// Wait blocks until the poll loop has exited.
func (k *Keeper) Wait() {
	if k.done != nil {
		<-k.done
	}
}
