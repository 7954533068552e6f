package sticky

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

func TestOnMessage_FirstMessageDoesNothing(t *testing.T) {
	r := NewRegistry(10 * time.Second)
	act := r.OnMessage("c1", "alice", t0)
	assert.True(t, act.IsZero())
}

func TestOnMessage_SameAuthorBelowThreshold(t *testing.T) {
	// Scenario: author A, then A again 5s later with a 10s threshold.
	r := NewRegistry(10 * time.Second)
	r.OnMessage("c1", "alice", t0)

	act := r.OnMessage("c1", "alice", t0.Add(5*time.Second))
	assert.True(t, act.IsZero(), "idle not met and author unchanged")
}

func TestOnMessage_PostAfterIdle(t *testing.T) {
	r := NewRegistry(10 * time.Second)
	r.OnMessage("c1", "alice", t0)

	act := r.OnMessage("c1", "alice", t0.Add(10*time.Second))
	assert.True(t, act.Post, "threshold boundary is inclusive")
	assert.Empty(t, act.DeleteID)
}

func TestOnMessage_ThresholdBoundary(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		post    bool
	}{
		{"just under", 9*time.Second + 999*time.Millisecond, false},
		{"exactly at", 10 * time.Second, true},
		{"over", 11 * time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(10 * time.Second)
			r.OnMessage("c1", "alice", t0)
			act := r.OnMessage("c1", "alice", t0.Add(tt.elapsed))
			assert.Equal(t, tt.post, act.Post)
		})
	}
}

func TestOnMessage_HandOffDeletesSticky(t *testing.T) {
	r := NewRegistry(10 * time.Second)
	r.OnMessage("c1", "alice", t0)
	r.RecordPosted("c1", "sticky-1")

	// same author keeps the sticky
	act := r.OnMessage("c1", "alice", t0.Add(time.Second))
	assert.True(t, act.IsZero())
	assert.Equal(t, "sticky-1", r.ActiveID("c1"))

	// a different author triggers the hand-off
	act = r.OnMessage("c1", "bob", t0.Add(2*time.Second))
	assert.Equal(t, "sticky-1", act.DeleteID)
	assert.False(t, act.Post, "idle threshold not met")
	assert.Empty(t, r.ActiveID("c1"), "old id cleared inside the decision")
}

func TestOnMessage_HandOffAfterIdleDeletesAndPosts(t *testing.T) {
	r := NewRegistry(10 * time.Second)
	r.OnMessage("c1", "alice", t0)
	r.RecordPosted("c1", "sticky-1")

	act := r.OnMessage("c1", "bob", t0.Add(30*time.Second))
	assert.Equal(t, "sticky-1", act.DeleteID)
	assert.True(t, act.Post, "hand-off plus idle combine into one transition")
}

func TestOnMessage_NoPostWhileStickyActive(t *testing.T) {
	r := NewRegistry(10 * time.Second)
	r.OnMessage("c1", "alice", t0)
	r.RecordPosted("c1", "sticky-1")

	// long quiet gap but the sticky is still active and the author unchanged
	act := r.OnMessage("c1", "alice", t0.Add(time.Hour))
	assert.True(t, act.IsZero())
	assert.Equal(t, "sticky-1", r.ActiveID("c1"))
}

func TestOnMessage_ChannelsAreIndependent(t *testing.T) {
	r := NewRegistry(10 * time.Second)
	r.OnMessage("c1", "alice", t0)
	r.RecordPosted("c1", "sticky-1")

	act := r.OnMessage("c2", "bob", t0)
	assert.True(t, act.IsZero())
	assert.Equal(t, "sticky-1", r.ActiveID("c1"))
	assert.Empty(t, r.ActiveID("c2"))
}

func TestOnQuiet(t *testing.T) {
	r := NewRegistry(120 * time.Second)

	// channel not quiet long enough
	act := r.OnQuiet("c1", "m9", t0, t0.Add(60*time.Second))
	assert.True(t, act.IsZero())

	// quiet exactly at the threshold, no prior sticky
	act = r.OnQuiet("c1", "m9", t0, t0.Add(120*time.Second))
	assert.True(t, act.Post)
	assert.Empty(t, act.DeleteID)
	r.RecordPosted("c1", "sticky-1")

	// our sticky is the newest message: nothing to do
	act = r.OnQuiet("c1", "sticky-1", t0, t0.Add(300*time.Second))
	assert.True(t, act.IsZero())
	assert.Equal(t, "sticky-1", r.ActiveID("c1"))

	// someone spoke after the sticky and went quiet again
	act = r.OnQuiet("c1", "m10", t0.Add(300*time.Second), t0.Add(600*time.Second))
	assert.Equal(t, "sticky-1", act.DeleteID)
	assert.True(t, act.Post)
	assert.Empty(t, r.ActiveID("c1"))
}

func TestRecordPosted_ReportsDisplaced(t *testing.T) {
	r := NewRegistry(10 * time.Second)

	assert.Empty(t, r.RecordPosted("c1", "sticky-1"))
	// a racing second post displaces the first
	assert.Equal(t, "sticky-1", r.RecordPosted("c1", "sticky-2"))
	assert.Equal(t, "sticky-2", r.ActiveID("c1"))
}

func TestStats(t *testing.T) {
	r := NewRegistry(10 * time.Second)
	r.OnMessage("c1", "alice", t0)
	r.RecordPosted("c1", "sticky-1")
	r.OnMessage("c2", "bob", t0.Add(time.Second))

	stats := r.Stats()
	assert.Len(t, stats, 2)
	byID := map[string]ChannelStats{}
	for _, s := range stats {
		byID[s.ChannelID] = s
	}
	assert.True(t, byID["c1"].ActiveSticky)
	assert.False(t, byID["c2"].ActiveSticky)
	assert.Equal(t, t0.Unix(), byID["c1"].LastActivity)
}

// TestConcurrentDecisions hammers one channel from many goroutines and then
// checks the invariant: at most one active sticky id, and every displaced or
// deleted id is accounted for exactly once.
func TestConcurrentDecisions(t *testing.T) {
	r := NewRegistry(time.Nanosecond)

	var wg sync.WaitGroup
	authors := []string{"alice", "bob", "carol"}
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			now := t0.Add(time.Duration(i) * time.Millisecond)
			act := r.OnMessage("c1", authors[i%len(authors)], now)
			if act.Post {
				r.RecordPosted("c1", "sticky")
			}
		}(i)
	}
	wg.Wait()

	// After the dust settles the channel tracks at most one sticky.
	id := r.ActiveID("c1")
	assert.Contains(t, []string{"", "sticky"}, id)
}
