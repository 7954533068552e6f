// Package metrics holds the Prometheus instruments for the moderation
// pipeline. All instruments live on a caller-supplied registry so tests can
// use an isolated one.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the counters updated by the inspection, sticky, and
// refresh paths.
type Metrics struct {
	MessagesInspected prometheus.Counter
	MessagesBlocked   prometheus.Counter
	StickyPosts       prometheus.Counter
	StickyDeletes     prometheus.Counter
	CosmeticReplies   prometheus.Counter
	RefreshSuccess    prometheus.Counter
	RefreshFailure    prometheus.Counter
}

// New registers the instrument set on reg and returns it.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MessagesInspected: factory.NewCounter(prometheus.CounterOpts{
			Name: "chatsentry_messages_inspected_total",
			Help: "Messages received and run through the inspection pipeline.",
		}),
		MessagesBlocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "chatsentry_messages_blocked_total",
			Help: "Messages deleted for containing a blocklisted link.",
		}),
		StickyPosts: factory.NewCounter(prometheus.CounterOpts{
			Name: "chatsentry_sticky_posts_total",
			Help: "Sticky messages posted to help channels.",
		}),
		StickyDeletes: factory.NewCounter(prometheus.CounterOpts{
			Name: "chatsentry_sticky_deletes_total",
			Help: "Sticky messages deleted after channel activity.",
		}),
		CosmeticReplies: factory.NewCounter(prometheus.CounterOpts{
			Name: "chatsentry_cosmetic_replies_total",
			Help: "Probabilistic replies and reactions sent.",
		}),
		RefreshSuccess: factory.NewCounter(prometheus.CounterOpts{
			Name: "chatsentry_blocklist_refresh_success_total",
			Help: "Blocklist refresh cycles that installed a new snapshot.",
		}),
		RefreshFailure: factory.NewCounter(prometheus.CounterOpts{
			Name: "chatsentry_blocklist_refresh_failure_total",
			Help: "Blocklist refresh cycles that failed and kept the old snapshot.",
		}),
	}
}

// NewUnregistered returns an instrument set on a throwaway registry, for
// components that need a *Metrics but whose caller does not expose one.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}
