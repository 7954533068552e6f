package blocklist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chatsentry/chat-sentry/internal/sentry/common/log"
	"github.com/chatsentry/chat-sentry/internal/sentry/common/utils"
)

// ParsePlainList parses a newline-delimited feed of links or bare domains
// into normalized snapshot entries.
//
// Behavior:
// - Skips whole-line comments starting with '#'
// - Each surviving line is normalized exactly like a message token, so a
//   stored entry always equals what the same text normalizes to at
//   inspection time
// - Skips lines that are empty after trimming/normalization
// - De-duplicates while preserving first-seen order
//
// Any line of text is acceptable, so the only error source is the reader
// itself. An empty result is a valid, deliberately installable outcome.
func ParsePlainList(r io.Reader, logger log.Logger) ([]string, error) {
	scanner := bufio.NewScanner(r)

	seen := make(map[string]struct{})
	out := make([]string, 0, 256)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		line = strings.TrimPrefix(line, "\uFEFF")

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		entry := utils.NormalizeToken(line)
		if entry == "" {
			logger.Debug(map[string]any{"line": lineNum}, "skip_degenerate_entry")
			continue
		}
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning blocklist: %w", err)
	}
	logger.Debug(map[string]any{"count": len(out)}, "parse_plain_list_done")
	return out, nil
}

// LoadFile reads a newline-delimited blocklist file into a Snapshot.
// A missing or unreadable file is an error; callers keep serving whatever
// snapshot they already hold.
func LoadFile(path string, logger log.Logger) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("opening blocklist %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ParsePlainList(f, logger)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parsing blocklist %s: %w", path, err)
	}
	return NewSnapshot(entries), nil
}
