package utils

import "strings"

// trailingTrimSet holds the punctuation stripped from the end of a token.
// Mirrors how entries are stored in the feed: bare links, no surrounding
// punctuation.
const trailingTrimSet = "./?!,"

// NormalizeToken reduces a whitespace-delimited message token to the
// canonical form used for blocklist membership tests:
//   - Lowercased and trimmed of surrounding whitespace
//   - HTTP(S) scheme stripped; when a scheme was present the token is
//     truncated at the first '/' so only the authority remains
//   - Trailing '.', '/', '?', '!' and ',' removed repeatedly
//
// Always returns a string; degenerate input yields "".
func NormalizeToken(token string) string {
	s := strings.ToLower(strings.TrimSpace(token))

	var schemed bool
	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(s, scheme) {
			s = strings.TrimPrefix(s, scheme)
			schemed = true
			break
		}
	}
	if schemed {
		if i := strings.IndexByte(s, '/'); i >= 0 {
			s = s[:i]
		}
	}

	return strings.TrimRight(s, trailingTrimSet)
}
