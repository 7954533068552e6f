package blocklist

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/chatsentry/chat-sentry/internal/sentry/common/log"
	"github.com/chatsentry/chat-sentry/internal/sentry/common/utils"
)

func TestParsePlainList_Basics(t *testing.T) {
	input := `
# comment at top
Bad.Example.COM
http://evil.example.net/steal

	phish.example.org.
bad.example.com
`
	got, err := ParsePlainList(bytes.NewBufferString(input), log.NewNoopLogger())
	if err != nil {
		t.Fatalf("ParsePlainList returned error: %v", err)
	}

	want := []string{"bad.example.com", "evil.example.net", "phish.example.org"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d: %#v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("entry[%d] = %q, want %q", i, got[i], w)
		}
	}
}

func TestParsePlainList_EmptyAndCommentsOnly(t *testing.T) {
	input := "\n# only comments\n   # another\n\n"
	got, err := ParsePlainList(bytes.NewBufferString(input), log.NewNoopLogger())
	if err != nil {
		t.Fatalf("ParsePlainList returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected 0 entries, got %d", len(got))
	}
}

func TestParsePlainList_FragmentEntrySurvivesIntact(t *testing.T) {
	// '#' only comments out whole lines; inside an entry it is part of the
	// link and must be stored exactly as a message token would normalize,
	// otherwise exact mode can never match it
	input := "evil.example/path#login\n# whole-line comment\n"
	got, err := ParsePlainList(bytes.NewBufferString(input), log.NewNoopLogger())
	if err != nil {
		t.Fatalf("ParsePlainList returned error: %v", err)
	}
	if len(got) != 1 || got[0] != "evil.example/path#login" {
		t.Fatalf("unexpected entries: %#v", got)
	}
	if got[0] != utils.NormalizeToken("evil.example/path#login") {
		t.Errorf("stored entry %q differs from its own normalization", got[0])
	}
}

func TestParsePlainList_BOM(t *testing.T) {
	input := "\uFEFFbad.example.com\n"
	got, err := ParsePlainList(bytes.NewBufferString(input), log.NewNoopLogger())
	if err != nil {
		t.Fatalf("ParsePlainList returned error: %v", err)
	}
	if len(got) != 1 || got[0] != "bad.example.com" {
		t.Fatalf("unexpected entries: %#v", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blocklist.txt")
	if err := os.WriteFile(path, []byte("a.com\nb.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := LoadFile(path, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if snap.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", snap.Len())
	}
	if !snap.Contains("a.com") {
		t.Error("expected a.com to be a member")
	}
	if snap.Contains("c.com") {
		t.Error("c.com should not be a member")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"), log.NewNoopLogger())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFile_Empty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := LoadFile(path, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if snap.Len() != 0 {
		t.Fatalf("expected empty snapshot, got %d entries", snap.Len())
	}
}
