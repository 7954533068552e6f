package domain

import (
	"fmt"
	"strings"
)

// MatchMode defines how normalized tokens are tested against the blocklist.
//
// exact  - the full normalized token must be a member of the set
// domain - the token's host, or its registrable domain, must be a member
type MatchMode uint8

const (
	// MatchExact matches the entire normalized token.
	MatchExact MatchMode = iota
	// MatchDomain matches on the token's host/registrable domain only.
	MatchDomain
)

// String returns a stable string representation of the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchDomain:
		return "domain"
	default:
		return fmt.Sprintf("MatchMode(%d)", m)
	}
}

// ParseMatchMode converts a string into a MatchMode.
// Accepts: "exact", "domain" (case-insensitive).
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact":
		return MatchExact, nil
	case "domain":
		return MatchDomain, nil
	default:
		return 0, fmt.Errorf("unsupported MatchMode: %q", s)
	}
}
