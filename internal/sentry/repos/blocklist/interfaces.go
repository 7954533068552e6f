package blocklist

import "github.com/chatsentry/chat-sentry/internal/sentry/domain"

// VerdictCache caches block decisions by candidate string with basic metrics.
type VerdictCache interface {
	Get(candidate string) (domain.BlockDecision, bool)
	Put(candidate string, d domain.BlockDecision)
	Len() int
	Purge()
	Stats() (hits, misses, evictions uint64)
}

// BloomFilter is the minimal interface the repository needs from Bloom
// filters. MightContain must be safe for concurrent readers.
type BloomFilter interface {
	Add(key []byte)
	MightContain(key []byte) bool
}

// BloomSizer computes Bloom filter parameters from capacity (n) and target
// FP rate (p). It returns m (number of bits) and k (number of hash functions).
type BloomSizer interface {
	Size(n uint64, p float64) (m uint64, k uint8)
}

// BloomFactory builds a BloomFilter sized for a dataset.
type BloomFactory interface {
	New(capacity uint64, fpRate float64) BloomFilter
}

// Repository is the read side of the blocklist: many concurrent Decide
// callers, one Replace writer (the refresher).
//
// Decide returns a value-type BlockDecision for a raw message token.
// Replace atomically installs a snapshot, rebuilds the Bloom filter, and
// purges the verdict cache.
type Repository interface {
	Decide(token string) domain.BlockDecision
	Replace(s Snapshot)
	Stats() RepoStats
}
