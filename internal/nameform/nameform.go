// Package nameform canonicalizes free-text vendor names scraped from venue
// sites so they can be compared and turned into stable identifiers.
package nameform

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// decorationSet holds glyphs venues sprinkle into vendor names purely for
// flair. They carry no identity and are removed before any comparison.
var decorationSet = func() map[rune]bool {
	set := make(map[rune]bool)
	for _, r := range "★☆♪♫♬♡♥❤✨✦✧◆◇■□●○☀☻☺♠♣※" {
		set[r] = true
	}
	return set
}()

// canonical composes to NFKC (collapsing fullwidth/halfwidth variants) and
// turns decorative glyphs into spaces in one pass. Decorations become spaces
// rather than vanishing so that "A★B" splits into two words instead of
// fusing into one.
var canonical = transform.Chain(
	norm.NFKC,
	runes.Map(func(r rune) rune {
		if decorationSet[r] {
			return ' '
		}
		return r
	}),
)

// Normalize returns the canonical comparison form of a raw vendor name:
// NFKC-composed, decoration-free, single-spaced, trimmed, lowercased.
// It is a pure function, total over all strings, and idempotent.
func Normalize(raw string) string {
	folded, _, err := transform.String(canonical, raw)
	if err != nil {
		// transform.String only fails on a short destination buffer, which
		// String never produces; fall back to the raw input regardless.
		folded = raw
	}
	collapsed := strings.Join(strings.Fields(folded), " ")
	return strings.ToLower(collapsed)
}

// DeriveID derives a URL-safe slug from a vendor name: normalize, keep only
// ASCII word characters, spaces and hyphens, then hyphenate. Names written
// entirely in non-Latin script derive to nothing, in which case a
// timestamp-based placeholder id is returned so the caller always gets a
// usable key. Non-fallback output matches ^[a-z0-9-]+$.
func DeriveID(name string) string {
	normalized := Normalize(name)

	var b strings.Builder
	for _, r := range normalized {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(' ')
		}
	}

	// Hyphens and underscores were folded to spaces above, so joining the
	// remaining fields also collapses runs and trims the edges.
	slug := strings.Join(strings.Fields(b.String()), "-")
	if slug == "" {
		return fmt.Sprintf("truck-%d", time.Now().UnixNano())
	}
	return slug
}
