package bloom

import (
	"math"

	"github.com/chatsentry/chat-sentry/internal/sentry/repos/blocklist"
)

// sizer derives filter dimensions from the expected entry count n and the
// target false-positive rate p. Bit count follows m = -n*ln(p)/ln(2)^2 and
// hash count follows k = (m/n)*ln(2), each rounded up to at least 1 so a
// degenerate snapshot still yields a usable filter.
type sizer struct{}

// NewSizer returns a BloomSizer implementation.
func NewSizer() blocklist.BloomSizer { return sizer{} }

func (s sizer) Size(n uint64, p float64) (uint64, uint8) {
	if n == 0 {
		n = 1
	}
	if p <= 0 || p >= 1 {
		// out-of-range rate, fall back to 1%
		p = 0.01
	}

	bits := uint64(math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2)))
	if bits == 0 {
		bits = 1
	}
	hashes := uint8(math.Max(1, math.Round((float64(bits)/float64(n))*math.Ln2)))
	return bits, hashes
}
