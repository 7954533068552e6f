package blocklist

import (
	"sync"
	"sync/atomic"

	"github.com/chatsentry/chat-sentry/internal/sentry/common/log"
	"github.com/chatsentry/chat-sentry/internal/sentry/common/utils"
	"github.com/chatsentry/chat-sentry/internal/sentry/domain"
)

// repository implements Repository by composing the live Snapshot, a Bloom
// filter (via factory), and a VerdictCache. Reads run a bloom → cache → set
// pipeline; Replace performs an atomic snapshot-and-bloom swap.
type repository struct {
	mu          sync.RWMutex
	snap        Snapshot
	bloom       BloomFilter
	cache       VerdictCache
	factory     BloomFactory
	fpRate      float64
	mode        domain.MatchMode
	logger      log.Logger
	lastReplace atomic.Int64 // unix seconds of the last Replace
}

// NewRepository constructs a Repository serving an empty snapshot until the
// first Replace. fpRate is the target false-positive rate for the Bloom
// filter when rebuilding.
func NewRepository(cache VerdictCache, factory BloomFactory, fpRate float64, mode domain.MatchMode, logger log.Logger) Repository {
	return &repository{
		snap:    EmptySnapshot(),
		cache:   cache,
		factory: factory,
		fpRate:  fpRate,
		mode:    mode,
		logger:  logger,
	}
}

// Decide evaluates a raw message token against the current snapshot.
// The token is normalized here so callers need no knowledge of the matching
// policy. Safe under unbounded concurrent callers; a concurrent Replace
// blocks a reader only for the duration of the reference swap.
func (r *repository) Decide(token string) domain.BlockDecision {
	norm := utils.NormalizeToken(token)
	if norm == "" {
		return domain.EmptyDecision()
	}

	for _, candidate := range r.candidates(norm) {
		// 1) bloom: early-allow on a definitive negative
		if !r.checkBloom(candidate) {
			continue
		}
		// 2) verdict cache
		if d, ok := r.checkCache(candidate); ok {
			if d.Blocked {
				return d
			}
			continue
		}
		// 3) snapshot membership
		dec := r.checkSnapshot(candidate, norm)
		// 4) cache the verdict either way
		r.updateCache(candidate, dec)
		if dec.Blocked {
			return dec
		}
	}
	return domain.EmptyDecision()
}

// candidates expands a normalized token into the strings tested against the
// set, per the configured matching policy. In domain mode the bare host is
// tried first, then its registrable domain.
func (r *repository) candidates(norm string) []string {
	if r.mode == domain.MatchExact {
		return []string{norm}
	}
	host := utils.HostOf(norm)
	if host == "" {
		return nil
	}
	apex := utils.RegistrableDomain(host)
	if apex == "" || apex == host {
		return []string{host}
	}
	return []string{host, apex}
}

// Replace installs a new snapshot atomically with respect to concurrent
// Decide calls. The Bloom filter is rebuilt outside the lock; the lock is
// held only for the reference swap and cache purge.
func (r *repository) Replace(s Snapshot) {
	bf := r.factory.New(uint64(s.Len()), r.fpRate)
	s.Each(func(entry string) bool {
		bf.Add([]byte(entry))
		return true
	})

	r.mu.Lock()
	r.snap = s
	r.bloom = bf
	r.cache.Purge()
	r.mu.Unlock()
	r.lastReplace.Store(nowUnix())

	r.logger.Info(map[string]any{"entries": s.Len()}, "blocklist_replaced")
}

// Stats exposes repository counters for the ops surface.
func (r *repository) Stats() RepoStats {
	hits, misses, evictions := r.cache.Stats()
	r.mu.RLock()
	entries := r.snap.Len()
	r.mu.RUnlock()
	return RepoStats{
		Entries:     entries,
		Hits:        hits,
		Misses:      misses,
		Evictions:   evictions,
		LastReplace: r.lastReplace.Load(),
	}
}

// checkBloom returns true if we should consult the snapshot
// (maybe-positive), or false if we can early-allow (definitely negative).
// Before the first Replace no bloom is loaded and everything passes through.
func (r *repository) checkBloom(candidate string) bool {
	r.mu.RLock()
	bf := r.bloom
	r.mu.RUnlock()
	if bf == nil {
		return true
	}
	return bf.MightContain([]byte(candidate))
}

func (r *repository) checkCache(candidate string) (domain.BlockDecision, bool) {
	r.mu.RLock()
	d, ok := r.cache.Get(candidate)
	r.mu.RUnlock()
	return d, ok
}

func (r *repository) checkSnapshot(candidate, norm string) domain.BlockDecision {
	r.mu.RLock()
	hit := r.snap.Contains(candidate)
	r.mu.RUnlock()
	if !hit {
		return domain.EmptyDecision()
	}
	return domain.BlockDecision{Blocked: true, MatchedEntry: candidate, Token: norm}
}

func (r *repository) updateCache(candidate string, dec domain.BlockDecision) {
	r.mu.Lock()
	r.cache.Put(candidate, dec)
	r.mu.Unlock()
}
