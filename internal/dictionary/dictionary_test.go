package dictionary

import (
	"testing"

	"raid-parser/internal/language"
	"raid-parser/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForLanguagesMergesAndDeduplicates(t *testing.T) {
	d := ForLanguages([]language.Code{language.English, language.German})

	seen := make(map[string]int)
	for _, e := range d.Roles {
		seen[e.Keyword]++
	}
	// "tank" and "hammer" exist in both tables; the merged table keeps one.
	assert.Equal(t, 1, seen["tank"])
	assert.Equal(t, 1, seen["hammer"])
	// German-only entries survive the merge.
	assert.Equal(t, 1, seen["heiler"])
}

func TestResolveFallsBackToDefault(t *testing.T) {
	d := Resolve("1234 5678")

	require.Equal(t, []language.Code{DefaultLanguage}, d.Languages)
	assert.NotEmpty(t, d.Roles)
}

func TestMatchRoleFirstMatchWins(t *testing.T) {
	d := ForLanguages([]language.Code{language.English})

	// "tank" precedes every healer keyword in the table, so a label that
	// contains both resolves to tank.
	entry, ok := d.MatchRole("Tank Healer Hybrid")
	require.True(t, ok)
	assert.Equal(t, models.RoleTank, entry.Role)

	entry, ok = d.MatchRole("HALLOWFALL")
	require.True(t, ok)
	assert.Equal(t, models.RoleHealer, entry.Role)

	_, ok = d.MatchRole("completely unrelated")
	assert.False(t, ok)
}

func TestSameDetectionSharedAcrossCategories(t *testing.T) {
	d := Resolve("сбор на рейд, нужен танк, еда и маунт с собой")

	assert.Contains(t, d.Languages, language.Russian)
	// The same resolution feeds roles and requirement sets.
	_, ok := d.MatchRole("танк")
	assert.True(t, ok)
	assert.True(t, ContainsAny("берем еда", d.Food))
	assert.True(t, ContainsAny("маунт обязателен", d.Mount))
}
