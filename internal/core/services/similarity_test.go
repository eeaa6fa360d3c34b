package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSimilarFlagsNearDuplicates(t *testing.T) {
	existing := []string{"robotica_mty", "club_halcones"}

	// one substitution on a 12-char name
	assert.True(t, IsSimilar("robotika_mty", existing))
	// case only differs
	assert.True(t, IsSimilar("ROBOTICA_MTY", existing))
	// trailing whitespace ignored
	assert.True(t, IsSimilar("  club_halcones ", existing))
}

func TestIsSimilarAllowsDistinctNames(t *testing.T) {
	existing := []string{"robotica_mty", "club_halcones"}

	assert.False(t, IsSimilar("vortex_gdl", existing))
	assert.False(t, IsSimilar("escuderia_cdmx", existing))
}

func TestIsSimilarEdgeCases(t *testing.T) {
	assert.False(t, IsSimilar("", []string{"algo"}))
	assert.False(t, IsSimilar("   ", []string{"algo"}))
	assert.False(t, IsSimilar("algo", nil))
	assert.False(t, IsSimilar("algo", []string{"", "  "}))
}

func TestSimilarityThresholdBoundary(t *testing.T) {
	// Exactly at the threshold (1 edit / 4 chars = 0.25) is NOT similar;
	// the comparison is strict
	assert.False(t, IsSimilar("abcd", []string{"abcx"}))
	// Below it is
	assert.True(t, IsSimilar("abcdefgh", []string{"abcdefgx"}))
}
