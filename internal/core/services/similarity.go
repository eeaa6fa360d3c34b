package services

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// SimilarityThreshold is the normalized edit-distance ceiling under
// which two identifiers count as near-duplicates. 0.25 means at most
// one edit per four characters, e.g. three edits on a 12-char name.
const SimilarityThreshold = 0.25

// IsSimilar reports whether candidate is a near-duplicate of any of
// the existing identifiers. Comparison is case-insensitive; exact
// matches are handled by unique indexes before this runs.
func IsSimilar(candidate string, existing []string) bool {
	candidate = strings.ToLower(strings.TrimSpace(candidate))
	if candidate == "" {
		return false
	}

	for _, other := range existing {
		other = strings.ToLower(strings.TrimSpace(other))
		if other == "" {
			continue
		}
		if similarityDistance(candidate, other) < SimilarityThreshold {
			return true
		}
	}
	return false
}

// similarityDistance returns the Levenshtein distance between a and b
// normalized by the longer length, in [0, 1].
func similarityDistance(a, b string) float64 {
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}
