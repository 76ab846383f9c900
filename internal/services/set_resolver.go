package services

import (
	"sort"
	"strings"
)

// setNameCorrections maps scraped set labels straight to canonical catalog
// group names. These cover spellings the list site uses that never fuzzy-match
// the catalog's prefixed names.
var setNameCorrections = map[string]string{
	"Scarlet & Violet Black Star Promos": "SV: Scarlet & Violet Black Star Promos",
	"Sword & Shield Black Star Promos":   "SWSH: Sword & Shield Promo Cards",
	"Sun & Moon Black Star Promos":       "SM Promos",
}

// FixSetName applies the manual correction table to a scraped set label:
// known typos first, then direct label-to-canonical-name aliases.
func FixSetName(setName string) string {
	if strings.Contains(setName, "Accended") {
		setName = strings.ReplaceAll(setName, "Accended", "Ascended")
	}
	if fixed, ok := setNameCorrections[setName]; ok {
		return fixed
	}
	return setName
}

// groupResolver is one strategy in the set-name resolution chain.
type groupResolver interface {
	Try(setName string, groups map[string]int) (int, bool)
}

// exactResolver matches the label against group names verbatim.
type exactResolver struct{}

func (exactResolver) Try(setName string, groups map[string]int) (int, bool) {
	gid, ok := groups[setName]
	return gid, ok
}

// fuzzyResolver accepts a case-insensitive substring match in either
// direction. Group names are scanned in sorted order so that ties resolve
// to the lexicographically smallest matching name.
type fuzzyResolver struct{}

func (fuzzyResolver) Try(setName string, groups map[string]int) (int, bool) {
	lower := strings.ToLower(setName)
	for _, name := range sortedGroupNames(groups) {
		nl := strings.ToLower(name)
		if strings.Contains(nl, lower) || strings.Contains(lower, nl) {
			return groups[name], true
		}
	}
	return 0, false
}

// ampersandResolver handles labels containing "&" by trying rewritten
// variants: ampersand removed, ampersand spelled out, and the upper-cased
// first-letter abbreviation ("Sun & Moon" -> "SM"). Each variant is tried
// exact first, then as a substring/prefix match.
type ampersandResolver struct{}

func (ampersandResolver) Try(setName string, groups map[string]int) (int, bool) {
	if !strings.Contains(setName, "&") {
		return 0, false
	}

	variants := []string{
		strings.ReplaceAll(strings.ReplaceAll(setName, "& ", ""), "&", ""),
		strings.ReplaceAll(setName, "&", "and"),
	}
	if abbr := abbreviate(setName); abbr != "" {
		variants = append(variants, abbr)
	}

	names := sortedGroupNames(groups)
	for _, variant := range variants {
		if gid, ok := groups[variant]; ok {
			return gid, true
		}
		vlow := strings.ToLower(variant)
		for _, name := range names {
			nl := strings.ToLower(name)
			if strings.Contains(nl, vlow) || strings.Contains(vlow, nl) || strings.HasPrefix(nl, vlow) {
				return groups[name], true
			}
		}
	}
	return 0, false
}

// resolverChain is the fixed precedence order: exact, then fuzzy substring,
// then ampersand variants. First hit wins.
var resolverChain = []groupResolver{
	exactResolver{},
	fuzzyResolver{},
	ampersandResolver{},
}

// FindGroupID resolves a corrected set label to a catalog group id, or
// reports failure when no strategy in the chain produces a hit.
func FindGroupID(setName string, groups map[string]int) (int, bool) {
	for _, r := range resolverChain {
		if gid, ok := r.Try(setName, groups); ok {
			return gid, true
		}
	}
	return 0, false
}

// SearchVariants returns the lower-cased spellings of a set label used for
// the related-group fallback scan: the label itself plus, for labels with an
// ampersand, the rewritten forms and the letter abbreviation.
func SearchVariants(setName string) []string {
	variants := []string{strings.ToLower(setName)}
	if !strings.Contains(setName, "&") {
		return variants
	}
	variants = append(variants,
		strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(setName, "& ", ""), "&", "")),
		strings.ToLower(strings.ReplaceAll(setName, "&", "and")),
	)
	if abbr := abbreviate(setName); abbr != "" {
		variants = append(variants, strings.ToLower(abbr))
	}
	return variants
}

// PromoGroups lists every group whose name contains "promo", sorted by name.
// Used when an unresolvable label looks like a promo set. Abbreviation and
// promo scans can collide across sets with similar initials; the resolver
// only logs which group won, it does not try to disambiguate.
func PromoGroups(groups map[string]int) []string {
	var promos []string
	for name := range groups {
		if strings.Contains(strings.ToLower(name), "promo") {
			promos = append(promos, name)
		}
	}
	sort.Strings(promos)
	return promos
}

// abbreviate concatenates the upper-cased first letter of each word after
// dropping ampersands, so "Sun & Moon" becomes "SM".
func abbreviate(setName string) string {
	words := strings.Fields(strings.ReplaceAll(setName, "&", ""))
	var b strings.Builder
	for _, w := range words {
		first := []rune(w)[0]
		b.WriteString(strings.ToUpper(string(first)))
	}
	return b.String()
}

func sortedGroupNames(groups map[string]int) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
