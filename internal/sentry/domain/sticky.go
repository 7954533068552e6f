package domain

// StickyAction describes what the delivery layer should do with a channel's
// sticky message after a controller decision.
//
// A zero StickyAction means "do nothing". DeleteID and Post may both be set,
// in which case the delete of the old sticky precedes the new post.
type StickyAction struct {
	DeleteID string // old sticky message to delete, "" when none
	Post     bool   // true when a fresh sticky should be posted
}

// IsZero reports whether the action carries no work.
func (a StickyAction) IsZero() bool {
	return a.DeleteID == "" && !a.Post
}
