package bloom

import (
	bitsbloom "github.com/bits-and-blooms/bloom/v3"

	"github.com/chatsentry/chat-sentry/internal/sentry/repos/blocklist"
)

// factory builds filters sized by the package's own sizer, so the
// repository never deals in bit counts or hash counts directly.
type factory struct{}

// NewFactory returns a BloomFactory for snapshot-sized filters.
func NewFactory() blocklist.BloomFactory { return factory{} }

func (factory) New(capacity uint64, fpRate float64) blocklist.BloomFilter {
	m, k := sizer{}.Size(capacity, fpRate)
	return &filter{bf: bitsbloom.New(uint(m), uint(k))}
}
