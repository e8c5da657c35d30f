package remap

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Match selects how source headers are compared against RenameMap keys.
type Match int

const (
	// MatchExact compares header bytes as-is.
	MatchExact Match = iota
	// MatchFold ignores case, surrounding whitespace and diacritics, so
	// "Tag category: Mood/Feel" matches "Tag category: Mood/feel".
	MatchFold
)

// ParseMatch maps "exact" / "fold" to a Match. The empty string is MatchExact.
func ParseMatch(s string) (Match, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return MatchExact, nil
	case "fold":
		return MatchFold, nil
	default:
		return MatchExact, fmt.Errorf("unknown header match %q (want exact or fold)", s)
	}
}

func (m Match) String() string {
	if m == MatchFold {
		return "fold"
	}
	return "exact"
}

func (m Match) key(s string) string {
	if m == MatchFold {
		return Fold(s)
	}
	return s
}

// index re-keys rm under m. With MatchFold two keys may fold together; the
// lexically smaller source key wins so the result does not depend on map order.
func (m Match) index(rm RenameMap) map[string]string {
	out := make(map[string]string, len(rm))
	src := make(map[string]string, len(rm))
	for from, to := range rm {
		k := m.key(from)
		if prev, ok := src[k]; ok && prev < from {
			continue
		}
		src[k] = from
		out[k] = to
	}
	return out
}

// Fold lowercases s, trims surrounding space and strips combining marks.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
