// Package sticky tracks the single pinned-style message chat-sentry keeps
// per monitored channel, and decides when it should be deleted and reposted.
package sticky

import (
	"sync"
	"time"

	"github.com/chatsentry/chat-sentry/internal/sentry/domain"
)

// channelState consolidates everything the controller knows about one
// channel behind a single lock, so the read-decide-update sequence is
// atomic. Two messages arriving together for the same channel serialize
// here and can never interleave a decide/update pair.
type channelState struct {
	mu           sync.Mutex
	activeID     string    // currently tracked sticky message, "" when none
	lastAuthor   string    // author of the last inspected message
	lastActivity time.Time // arrival time of the last inspected message
}

// Registry holds per-channel sticky state for the process lifetime.
// States are created lazily on first use.
type Registry struct {
	mu       sync.Mutex
	idle     time.Duration
	channels map[string]*channelState
}

// NewRegistry creates a Registry with the given quiet threshold.
// A channel must be quiet for at least idle (inclusive) before a repost.
func NewRegistry(idle time.Duration) *Registry {
	return &Registry{
		idle:     idle,
		channels: make(map[string]*channelState),
	}
}

func (r *Registry) state(channelID string) *channelState {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.channels[channelID]
	if !ok {
		st = &channelState{}
		r.channels[channelID] = st
	}
	return st
}

// OnMessage applies a channel message to the state machine and returns the
// resulting action.
//
// An author hand-off (the previous message came from someone else) captures
// and clears the active sticky for deletion. A post is signalled only when
// no sticky is active and the channel had been quiet for at least the idle
// threshold before this message arrived. Delete-and-post can combine into a
// single action; the old id is cleared before the decision returns, so a
// concurrent caller can never observe a torn state.
func (r *Registry) OnMessage(channelID, authorID string, now time.Time) domain.StickyAction {
	st := r.state(channelID)
	st.mu.Lock()
	defer st.mu.Unlock()

	var act domain.StickyAction

	if st.lastAuthor != "" && st.lastAuthor != authorID && st.activeID != "" {
		act.DeleteID = st.activeID
		st.activeID = ""
	}

	if st.activeID == "" && !st.lastActivity.IsZero() && now.Sub(st.lastActivity) >= r.idle {
		act.Post = true
	}

	st.lastAuthor = authorID
	st.lastActivity = now
	return act
}

// OnQuiet is the background poller trigger. latestID and latestAt describe
// the channel's most recent message as reported by the platform. A repost is
// signalled when the channel has been quiet for the idle threshold and the
// newest message is not already our sticky. Shares the same per-channel lock
// as OnMessage.
func (r *Registry) OnQuiet(channelID, latestID string, latestAt, now time.Time) domain.StickyAction {
	st := r.state(channelID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if now.Sub(latestAt) < r.idle {
		return domain.StickyAction{}
	}
	if st.activeID != "" && st.activeID == latestID {
		// our sticky is already the newest message
		return domain.StickyAction{}
	}

	act := domain.StickyAction{DeleteID: st.activeID, Post: true}
	st.activeID = ""
	return act
}

// RecordPosted stores the id of a freshly posted sticky. It returns the id
// it displaced, which is non-empty only when two posts raced; the caller
// should delete the displaced message so the channel keeps a single sticky.
func (r *Registry) RecordPosted(channelID, messageID string) (displaced string) {
	st := r.state(channelID)
	st.mu.Lock()
	defer st.mu.Unlock()
	displaced = st.activeID
	st.activeID = messageID
	return displaced
}

// ActiveID returns the currently tracked sticky id for a channel, "" when
// none is active.
func (r *Registry) ActiveID(channelID string) string {
	st := r.state(channelID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.activeID
}

// ChannelStats is a point-in-time view of one channel's sticky state.
type ChannelStats struct {
	ChannelID    string
	ActiveSticky bool
	LastActivity int64 // unix seconds, 0 when the channel has seen no traffic
}

// Stats snapshots every known channel for the ops surface.
func (r *Registry) Stats() []ChannelStats {
	r.mu.Lock()
	ids := make([]string, 0, len(r.channels))
	states := make([]*channelState, 0, len(r.channels))
	for id, st := range r.channels {
		ids = append(ids, id)
		states = append(states, st)
	}
	r.mu.Unlock()

	out := make([]ChannelStats, 0, len(ids))
	for i, st := range states {
		st.mu.Lock()
		cs := ChannelStats{ChannelID: ids[i], ActiveSticky: st.activeID != ""}
		if !st.lastActivity.IsZero() {
			cs.LastActivity = st.lastActivity.Unix()
		}
		st.mu.Unlock()
		out = append(out, cs)
	}
	return out
}
