// Package inspector holds the moderation core: it turns one inbound message
// into the list of platform effects it warrants. The core is pure, every
// side effect goes through an EffectApplier.
package inspector

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/chatsentry/chat-sentry/internal/sentry/common/clock"
	"github.com/chatsentry/chat-sentry/internal/sentry/common/log"
	"github.com/chatsentry/chat-sentry/internal/sentry/common/metrics"
	"github.com/chatsentry/chat-sentry/internal/sentry/domain"
)

var warningEmojis = []string{"🚫", "⚠️"}

var sillyEmojis = []string{"🪩", "🙃", "🕺", "👀"}

type Inspector struct {
	blocklist Blocklist
	sticky    Sticky
	clock     clock.Clock
	metrics   *metrics.Metrics
	logger    log.Logger

	helpChannels  map[string]struct{}
	stickyText    string
	replyRateHelp float64
	replyRate     float64

	// seams for deterministic tests
	randFloat func() float64
	randIntn  func(n int) int
}

type InspectorOptions struct {
	Blocklist     Blocklist
	Sticky        Sticky
	Clock         clock.Clock
	Metrics       *metrics.Metrics
	Logger        log.Logger
	HelpChannels  []string
	StickyText    string
	ReplyRateHelp float64
	ReplyRate     float64
}

func NewInspector(opts InspectorOptions) *Inspector {
	help := make(map[string]struct{}, len(opts.HelpChannels))
	for _, ch := range opts.HelpChannels {
		help[ch] = struct{}{}
	}
	return &Inspector{
		blocklist:     opts.Blocklist,
		sticky:        opts.Sticky,
		clock:         opts.Clock,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		helpChannels:  help,
		stickyText:    opts.StickyText,
		replyRateHelp: opts.ReplyRateHelp,
		replyRate:     opts.ReplyRate,
		randFloat:     rand.Float64,
		randIntn:      rand.Intn,
	}
}

// Inspect evaluates one message. A blocked link short-circuits everything
// else: the message is deleted and warned about, and neither the cosmetic
// reply nor the sticky controller sees it. Bot authors are ignored entirely
// so the daemon never reacts to its own output.
func (i *Inspector) Inspect(msg domain.Message) []domain.Effect {
	if msg.Bot {
		return nil
	}
	i.metrics.MessagesInspected.Inc()

	if effects := i.inspectLinks(msg); effects != nil {
		return effects
	}

	var effects []domain.Effect
	effects = append(effects, i.cosmeticEffects(msg)...)
	effects = append(effects, i.stickyEffects(msg)...)
	return effects
}

func (i *Inspector) inspectLinks(msg domain.Message) []domain.Effect {
	for _, token := range msg.Tokens() {
		decision := i.blocklist.Decide(token)
		if !decision.Blocked {
			continue
		}

		i.metrics.MessagesBlocked.Inc()
		i.logger.Info(map[string]any{
			"channel": msg.ChannelID,
			"author":  msg.AuthorID,
			"entry":   decision.MatchedEntry,
		}, "blocked_link")

		emoji := warningEmojis[i.randIntn(len(warningEmojis))]
		warning := fmt.Sprintf("<@%s> bad link! %s", msg.AuthorID, emoji)
		return []domain.Effect{
			domain.DeleteMessage(msg.ChannelID, msg.ID),
			domain.SendMessage(msg.ChannelID, warning),
		}
	}
	return nil
}

func (i *Inspector) cosmeticEffects(msg domain.Message) []domain.Effect {
	rate := i.replyRate
	if i.isHelpChannel(msg.ChannelID) {
		rate = i.replyRateHelp
	}
	if rate <= 0 || i.randFloat() >= rate {
		return nil
	}

	i.metrics.CosmeticReplies.Inc()
	emoji := sillyEmojis[i.randIntn(len(sillyEmojis))]
	return []domain.Effect{
		domain.ReplyMessage(msg.ChannelID, msg.ID, emoji),
		domain.ReactMessage(msg.ChannelID, msg.ID, emoji),
	}
}

func (i *Inspector) stickyEffects(msg domain.Message) []domain.Effect {
	if !i.isHelpChannel(msg.ChannelID) {
		return nil
	}

	act := i.sticky.OnMessage(msg.ChannelID, msg.AuthorID, i.clock.Now())
	if act.IsZero() {
		return nil
	}

	var effects []domain.Effect
	if act.DeleteID != "" {
		effects = append(effects, domain.DeleteSticky(msg.ChannelID, act.DeleteID))
	}
	if act.Post {
		effects = append(effects, domain.PostSticky(msg.ChannelID, i.stickyText))
	}
	return effects
}

func (i *Inspector) isHelpChannel(channelID string) bool {
	_, ok := i.helpChannels[channelID]
	return ok
}

// Handler glues an Inspector to an EffectApplier so a transport can deliver
// messages to it.
type Handler struct {
	inspector *Inspector
	applier   EffectApplier
}

func NewHandler(inspector *Inspector, applier EffectApplier) *Handler {
	return &Handler{inspector: inspector, applier: applier}
}

// HandleMessage inspects the message and applies whatever it warrants.
func (h *Handler) HandleMessage(ctx context.Context, msg domain.Message) {
	effects := h.inspector.Inspect(msg)
	if len(effects) > 0 {
		h.applier.Apply(ctx, effects)
	}
}
