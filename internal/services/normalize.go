package services

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Package-level compiled patterns, shared by all workers.
var (
	nonAlnumRegex   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	suffixRegexes   = buildSuffixRegexes()
	cardSuffixOrder = []string{"vmax", "vstar", "ex", "gx", "v"}
)

func buildSuffixRegexes() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, 5)
	for _, sfx := range []string{"vmax", "vstar", "ex", "gx", "v"} {
		out[sfx] = regexp.MustCompile(`\b` + sfx + `\b`)
	}
	return out
}

// NormalizeText lower-cases, strips accents and drops everything outside
// [a-z0-9 ], collapsing whitespace runs. Idempotent.
func NormalizeText(text string) string {
	text = strings.ToLower(text)
	decomposed := norm.NFD.String(text)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	text = nonAlnumRegex.ReplaceAllString(b.String(), "")
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

// ExtractCardSuffixes returns the set of special card-type suffixes (VMAX,
// VSTAR, EX, GX, V) present as whole words in text. Word-boundary matching
// keeps "v" from firing inside "vmax".
func ExtractCardSuffixes(text string) map[string]struct{} {
	lower := strings.ToLower(text)
	suffixes := make(map[string]struct{})
	for _, sfx := range cardSuffixOrder {
		if suffixRegexes[sfx].MatchString(lower) {
			suffixes[sfx] = struct{}{}
		}
	}
	return suffixes
}

// suffixSetsEqual reports whether two suffix sets contain exactly the same
// tags. Subset is not enough: "Charizard" must not match "Charizard VMAX".
func suffixSetsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for sfx := range a {
		if _, ok := b[sfx]; !ok {
			return false
		}
	}
	return true
}

// NormalizeNumber canonicalizes a printed card number for index lookups:
// lower-case, keep only the part before any "/" (catalog numbers come as
// "N/Total"), and strip leading zeros ("025" and "25/189" both become "25").
func NormalizeNumber(number string) string {
	number = strings.ToLower(number)
	if i := strings.IndexByte(number, '/'); i >= 0 {
		number = number[:i]
	}
	number = strings.TrimLeft(number, "0")
	if number == "" {
		return "0"
	}
	return number
}
