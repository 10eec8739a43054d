package netfetch

import (
	"net/url"
	"strings"
)

// AdblockList is a host-based block predicate grounded on
// original_source/crates/browser_core/src/adblocker.rs — kept
// intentionally tiny since the original file itself is a 15-line stub
// with no EasyList parsing actually implemented. Rules are plain
// substrings matched against the request URL (domain or path fragment),
// the simplest EasyList rule shape ("||ads.example.com^").
type AdblockList struct {
	patterns []string
}

// NewAdblockList builds a blocklist from raw rule strings. A nil or empty
// slice blocks nothing.
func NewAdblockList(patterns []string) *AdblockList {
	return &AdblockList{patterns: patterns}
}

// Blocks reports whether rawURL matches any blocklist pattern.
func (a *AdblockList) Blocks(rawURL string) bool {
	if a == nil {
		return false
	}
	for _, p := range a.patterns {
		if p != "" && strings.Contains(rawURL, p) {
			return true
		}
	}
	return false
}

// SameOrigin reports whether two URLs share scheme, host and port,
// grounded on original_source/crates/js_engine/src/security.rs's origin
// check, used by js/host's fetch binding to decide whether a response
// carries same-origin credentials metadata.
func SameOrigin(a, b string) bool {
	ua, errA := url.Parse(a)
	ub, errB := url.Parse(b)
	if errA != nil || errB != nil {
		return false
	}
	return ua.Scheme == ub.Scheme && ua.Host == ub.Host
}
