package utils

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// HostOf extracts the bare host from a normalized token: anything after the
// first '/' is dropped, then userinfo and port decorations are removed.
func HostOf(token string) string {
	s := token
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '@'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	return s
}

// RegistrableDomain reduces a host to its effective TLD plus one
// (e.g. "login.bad.example.co.uk" -> "bad.example.co.uk"). Falls back to the
// input host when the public suffix list cannot parse it.
func RegistrableDomain(host string) string {
	apex, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return apex
}
