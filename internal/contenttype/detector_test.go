package contenttype

import (
	"strings"
	"testing"

	"raid-parser/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sevenRoleLines() string {
	lines := []string{
		"Tank: <@100000000000000001>",
		"Healer: <@100000000000000002>",
		"Support: <@100000000000000003>",
		"DPS 1: <@100000000000000004>",
		"DPS 2: <@100000000000000005>",
		"DPS 3: <@100000000000000006>",
		"Scout: <@100000000000000007>",
	}
	return strings.Join(lines, "\n")
}

func TestDetectRoadsAmbiguousPair(t *testing.T) {
	// Seven role lines with no chest keyword: the PvP road variant.
	det := Detect("roads tonight\n" + sevenRoleLines())
	assert.Equal(t, TypeRoadsPVP, det.Type)
	assert.InDelta(t, 0.9, det.Confidence, 0.001)

	// The same composition with a golden chest named: the PvE variant.
	det = Detect("roads tonight, golden chest run\n" + sevenRoleLines())
	assert.Equal(t, TypeRoadsPVE, det.Type)
	assert.InDelta(t, 0.9, det.Confidence, 0.001)
}

func TestDetectGoldenChestMultilingual(t *testing.T) {
	det := Detect("дороги, золотой сундук\n" + sevenRoleLines())
	assert.Equal(t, TypeRoadsPVE, det.Type)
}

func TestDetectExactHellgate(t *testing.T) {
	msg := "hellgate time\nTank: <@1>\nHealer: <@2>\nDPS: <@3>\nDPS: <@4>\nDPS: <@5>"
	det := Detect(msg)
	assert.Equal(t, TypeHellgate5v5, det.Type)
	assert.InDelta(t, 0.9, det.Confidence, 0.001)
}

func TestDetectKeywordFallback(t *testing.T) {
	det := Detect("zvz callout, massing at territory, zerg up")
	assert.Equal(t, TypeZvZ, det.Type)
	assert.GreaterOrEqual(t, det.Confidence, 0.3)
	assert.Equal(t, models.RaidTypeFlex, det.Descriptor.RaidType)
}

func TestDetectUnclassified(t *testing.T) {
	det := Detect("hello how are you")
	assert.Equal(t, TypeOther, det.Type)
	assert.Zero(t, det.Confidence)
}

func TestDetectEmpty(t *testing.T) {
	det := Detect("")
	assert.Equal(t, TypeOther, det.Type)
	assert.Zero(t, det.Confidence)
}

func TestCountRoleLinesDenylist(t *testing.T) {
	msg := strings.Join([]string{
		"@everyone",
		"**Raid tonight**",
		"food: T7",
		"https://example.com/build",
		"/signup",
		"Tank: <@1>",
		"Healer -",
	}, "\n")
	assert.Equal(t, 2, CountRoleLines(msg))
}

func TestCountRoleLinesEmoji(t *testing.T) {
	msg := "🛡️ TANK\n💚 HEALER\nsome chatter"
	assert.Equal(t, 2, CountRoleLines(msg))
}

func TestNormalizeAliases(t *testing.T) {
	d, ok := Normalize("roads pve")
	require.True(t, ok)
	assert.Equal(t, TypeRoadsPVE, d.Type)

	d, ok = Normalize("AVALONIAN_ROADS_PVE")
	require.True(t, ok)
	assert.Equal(t, TypeRoadsPVE, d.Type)

	d, ok = Normalize("hg5")
	require.True(t, ok)
	assert.Equal(t, TypeHellgate5v5, d.Type)

	_, ok = Normalize("no such thing")
	assert.False(t, ok)
}

func TestFixedSizeMismatchPenalty(t *testing.T) {
	// Hellgate keywords but only three role lines: no fixed archetype has
	// size three, and in the keyword phase the mismatch penalty drops every
	// hellgate candidate below zero. Unclassified is the right answer.
	msg := "hellgate 5v5 tonight\nTank: <@1>\nHealer: <@2>\nDPS: <@3>"
	det := Detect(msg)
	assert.Equal(t, TypeOther, det.Type)
	assert.Zero(t, det.Confidence)
}
