package bloom

import (
	"sync"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"
)

// filter adapts a bits-and-blooms filter to the repository's BloomFilter
// seam. Adds are serialized; the repository fills a filter completely before
// publishing it, after which only MightContain runs, so the lock never
// contends with lookups.
type filter struct {
	mu sync.Mutex
	bf *bitsbloom.BloomFilter
}

func (f *filter) Add(key []byte) {
	f.mu.Lock()
	f.bf.Add(key)
	f.mu.Unlock()
}

func (f *filter) MightContain(key []byte) bool {
	return f.bf.Test(key)
}
