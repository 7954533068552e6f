package blocklist

import "testing"

func TestNewSnapshot(t *testing.T) {
	s := NewSnapshot([]string{"a.com", "b.com", "a.com", ""})

	if s.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", s.Len())
	}
	if !s.Contains("a.com") || !s.Contains("b.com") {
		t.Error("expected a.com and b.com to be members")
	}
	if s.Contains("c.com") {
		t.Error("c.com should not be a member")
	}
	if s.Contains("") {
		t.Error("empty string should never be a member")
	}
}

func TestEmptySnapshot(t *testing.T) {
	s := EmptySnapshot()
	if s.Len() != 0 {
		t.Fatalf("expected empty snapshot, got %d entries", s.Len())
	}
	if s.Contains("a.com") {
		t.Error("empty snapshot should contain nothing")
	}
}

func TestSnapshot_Each(t *testing.T) {
	s := NewSnapshot([]string{"a.com", "b.com", "c.com"})

	seen := map[string]struct{}{}
	s.Each(func(e string) bool {
		seen[e] = struct{}{}
		return true
	})
	if len(seen) != 3 {
		t.Fatalf("expected 3 visited entries, got %d", len(seen))
	}

	// early termination
	count := 0
	s.Each(func(string) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("expected visit to stop after 1 entry, got %d", count)
	}
}
