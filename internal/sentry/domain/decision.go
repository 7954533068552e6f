package domain

// BlockDecision represents the outcome of evaluating a token against the
// blocklist. Pure value type, no external dependencies.
type BlockDecision struct {
	Blocked      bool   // true when the token matched a blocklist entry
	MatchedEntry string // the set entry that matched (exact token or host/apex)
	Token        string // the normalized token that was tested
}

// IsBlocked is a convenience accessor.
func (d BlockDecision) IsBlocked() bool { return d.Blocked }

// EmptyDecision returns a not-blocked decision.
func EmptyDecision() BlockDecision { return BlockDecision{Blocked: false} }
