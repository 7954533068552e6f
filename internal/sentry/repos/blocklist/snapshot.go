package blocklist

// Snapshot is an immutable point-in-time set of normalized blocklist
// entries. It is built once by the parser and replaced wholesale; nothing
// mutates it after construction, so reads need no locking.
type Snapshot struct {
	entries map[string]struct{}
}

// NewSnapshot builds a Snapshot from already-normalized entries.
// Empty strings are skipped; duplicates collapse.
func NewSnapshot(entries []string) Snapshot {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e == "" {
			continue
		}
		set[e] = struct{}{}
	}
	return Snapshot{entries: set}
}

// EmptySnapshot returns a snapshot containing nothing. Lookups against it
// always miss.
func EmptySnapshot() Snapshot {
	return Snapshot{entries: map[string]struct{}{}}
}

// Contains reports set membership for a normalized candidate.
func (s Snapshot) Contains(candidate string) bool {
	_, ok := s.entries[candidate]
	return ok
}

// Len returns the snapshot cardinality.
func (s Snapshot) Len() int {
	return len(s.entries)
}

// Each calls visit for every entry until visit returns false.
// Iteration order is unspecified.
func (s Snapshot) Each(visit func(entry string) bool) {
	for e := range s.entries {
		if !visit(e) {
			return
		}
	}
}
