// Package search ranks in-memory collections against a free-text
// query. It is used by the transactions and recurring-bills lists,
// which share one pipeline: filter, sort, search, paginate.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Match tiers, best first. An item's tier is the best tier any of its
// keys reaches.
const (
	rankEqual = iota
	rankEqualFold
	rankPrefix
	rankContains
	rankAcronym
	rankFuzzy
	rankNone
)

// Items whose best key is further than this normalized edit distance
// from the query are dropped entirely.
const maxFuzzyDistance = 0.4

// Rank filters and orders items by how well the strings produced by
// keys match the query. Exact matches come first, then
// case-insensitive matches, prefixes, substrings, word-initial
// acronyms and finally near-misses within a bounded edit distance.
// Items in the same tier keep their input order, so an already-sorted
// collection stays sorted among equally good matches. An empty query
// returns items untouched.
func Rank[T any](items []T, query string, keys ...func(T) string) []T {
	if strings.TrimSpace(query) == "" {
		return items
	}

	type ranked struct {
		item T
		tier int
		pos  int
	}

	matches := make([]ranked, 0, len(items))
	for i, item := range items {
		tier := rankNone
		for _, key := range keys {
			if t := rankMatch(key(item), query); t < tier {
				tier = t
			}
		}
		if tier == rankNone {
			continue
		}
		matches = append(matches, ranked{item: item, tier: tier, pos: i})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].tier != matches[j].tier {
			return matches[i].tier < matches[j].tier
		}
		return matches[i].pos < matches[j].pos
	})

	out := make([]T, len(matches))
	for i, m := range matches {
		out[i] = m.item
	}
	return out
}

func rankMatch(value, query string) int {
	if value == query {
		return rankEqual
	}
	lv, lq := strings.ToLower(value), strings.ToLower(query)
	switch {
	case lv == lq:
		return rankEqualFold
	case strings.HasPrefix(lv, lq):
		return rankPrefix
	case strings.Contains(lv, lq):
		return rankContains
	case strings.HasPrefix(acronym(lv), lq):
		return rankAcronym
	}
	if withinFuzzyDistance(lv, lq) {
		return rankFuzzy
	}
	return rankNone
}

// acronym collects the first rune of each word, so "dvd" finds
// "Digital Video Disc".
func acronym(s string) string {
	var b strings.Builder
	wordStart := true
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			wordStart = true
			continue
		}
		if wordStart {
			b.WriteRune(r)
			wordStart = false
		}
	}
	return b.String()
}

func withinFuzzyDistance(value, query string) bool {
	longest := len(value)
	if len(query) > longest {
		longest = len(query)
	}
	if longest == 0 {
		return false
	}
	dist := levenshtein.ComputeDistance(value, query)
	return float64(dist)/float64(longest) < maxFuzzyDistance
}
