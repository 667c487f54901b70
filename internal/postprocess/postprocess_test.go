package postprocess

import (
	"testing"
	"time"

	"raid-parser/internal/contenttype"
	"raid-parser/internal/models"
	"raid-parser/internal/preprocess"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func run(t *testing.T, pre preprocess.Context, draft *models.ModelRaidDraft) *models.ParsedRaidRecord {
	t.Helper()
	record, err := Process(pre, draft, "", zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, record)
	return record
}

func TestConfidenceClamped(t *testing.T) {
	record := run(t, preprocess.Context{}, &models.ModelRaidDraft{Confidence: fptr(1.5)})
	assert.Equal(t, 1.0, record.Confidence)

	record = run(t, preprocess.Context{}, &models.ModelRaidDraft{Confidence: fptr(-0.3)})
	assert.Equal(t, 0.0, record.Confidence)
}

func TestConfidenceDefault(t *testing.T) {
	record := run(t, preprocess.Context{}, &models.ModelRaidDraft{})
	assert.Equal(t, 0.5, record.Confidence)
}

func TestExtractedTimeOverridesModelTimestamp(t *testing.T) {
	pre := preprocess.Context{ExtractedTime: "21:30"}
	draft := &models.ModelRaidDraft{Timestamp: "2026-09-05 19:00:00"}

	record := run(t, pre, draft)
	assert.Equal(t, 2026, record.Date.Year())
	assert.Equal(t, time.September, record.Date.Month())
	assert.Equal(t, 5, record.Date.Day())
	assert.Equal(t, 21, record.Date.Hour())
	assert.Equal(t, 30, record.Date.Minute())
}

func TestModelTimestampUsedWithoutExtractedTime(t *testing.T) {
	draft := &models.ModelRaidDraft{Timestamp: "2026-09-05 19:00:00"}
	want, err := time.ParseInLocation("2006-01-02 15:04:05", draft.Timestamp, time.Local)
	require.NoError(t, err)

	record := run(t, preprocess.Context{}, draft)
	assert.True(t, record.Date.Equal(want), "got %v, want %v", record.Date, want)
}

func TestModelDateSurvivesWesternZone(t *testing.T) {
	// A zone-less model date must keep its calendar day when the host sits
	// west of UTC and the extracted time replaces the clock portion.
	oldLocal := time.Local
	time.Local = time.FixedZone("UTC-4", -4*60*60)
	defer func() { time.Local = oldLocal }()

	pre := preprocess.Context{ExtractedTime: "20:00"}
	draft := &models.ModelRaidDraft{Timestamp: "2026-09-05"}

	record := run(t, pre, draft)
	assert.Equal(t, 2026, record.Date.Year())
	assert.Equal(t, time.September, record.Date.Month())
	assert.Equal(t, 5, record.Date.Day())
	assert.Equal(t, 20, record.Date.Hour())
	assert.Equal(t, 0, record.Date.Minute())
}

func TestUnparseableTimestampFallsBackToToday(t *testing.T) {
	record := run(t, preprocess.Context{}, &models.ModelRaidDraft{Timestamp: "next tuesday-ish"})
	now := time.Now()
	assert.Equal(t, now.Year(), record.Date.Year())
	assert.Equal(t, now.YearDay(), record.Date.YearDay())
	assert.Equal(t, 0, record.Date.Hour())
	assert.Equal(t, 0, record.Date.Minute())
}

func TestTitlePlaceholder(t *testing.T) {
	record := run(t, preprocess.Context{}, &models.ModelRaidDraft{Title: "   "})
	assert.Equal(t, models.DefaultTitle, record.Title)

	record = run(t, preprocess.Context{}, &models.ModelRaidDraft{Title: "Roads fame farm"})
	assert.Equal(t, "Roads fame farm", record.Title)
}

func TestLocationDefaultFromContentType(t *testing.T) {
	draft := &models.ModelRaidDraft{
		ContentType:     contenttype.TypeRoadsPVE,
		ContentTypeConf: fptr(0.85),
	}
	record := run(t, preprocess.Context{}, draft)
	assert.Equal(t, "Brecilien", record.Location)

	draft.Location = "Brecilien portal"
	record = run(t, preprocess.Context{}, draft)
	assert.Equal(t, "Brecilien portal", record.Location)
}

func TestRequirementsFallBackToExtracted(t *testing.T) {
	pre := preprocess.Context{ExtractedRequirements: []string{"T8.1 gear minimum"}}
	record := run(t, pre, &models.ModelRaidDraft{})
	assert.Equal(t, []string{"T8.1 gear minimum"}, record.Requirements)

	record = run(t, preprocess.Context{}, &models.ModelRaidDraft{})
	assert.NotNil(t, record.Requirements)
	assert.Empty(t, record.Requirements)
}

func TestNilDraftTolerated(t *testing.T) {
	record, err := Process(preprocess.Context{}, nil, "no json here", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTitle, record.Title)
	assert.Equal(t, 0.5, record.Confidence)
	assert.Equal(t, contenttype.TypeOther, record.ContentType)
	assert.Equal(t, 0.5, record.ContentTypeConfidence)
	assert.NotNil(t, record.Roles)
	assert.NotNil(t, record.Requirements)
}

func TestModelContentTypeWinsOverSuggestion(t *testing.T) {
	pre := preprocess.Context{
		PreAssignedContentType: &models.ContentTypeSuggestion{
			Type:       contenttype.TypeRoadsPVE,
			Confidence: 0.8,
		},
	}
	draft := &models.ModelRaidDraft{
		ContentType:     contenttype.TypeRoadsPVP,
		ContentTypeConf: fptr(0.7),
	}
	record := run(t, pre, draft)
	assert.Equal(t, contenttype.TypeRoadsPVP, record.ContentType)
	assert.Equal(t, 0.7, record.ContentTypeConfidence)
}

func TestUnknownModelContentTypeFallsToSuggestion(t *testing.T) {
	pre := preprocess.Context{
		PreAssignedContentType: &models.ContentTypeSuggestion{
			Type:       contenttype.TypeZvZ,
			Confidence: 0.4,
		},
	}
	draft := &models.ModelRaidDraft{
		ContentType:     "MEGA_RAID_DELUXE",
		ContentTypeConf: fptr(0.9),
	}
	record := run(t, pre, draft)
	assert.Equal(t, contenttype.TypeZvZ, record.ContentType)
	assert.Equal(t, 0.4, record.ContentTypeConfidence)
}

func TestRoleNormalization(t *testing.T) {
	draft := &models.ModelRaidDraft{
		Roles: []models.DraftRole{
			{Name: "Main Tank", Role: "Tank", PreAssignedUser: "@bob"},
			{Name: "Party Heal", Role: "ranged-dps", PreAssignedUser: float64(42)},
			{Name: "Scout", Role: "melee dps", PreAssignedUser: nil},
			{Name: "   ", Role: "tank"},
		},
	}
	record := run(t, preprocess.Context{}, draft)
	require.Len(t, record.Roles, 3)

	assert.Equal(t, models.RoleTank, record.Roles[0].Role)
	assert.Equal(t, "@bob", record.Roles[0].PreAssignedUser)
	assert.Equal(t, 1, record.Roles[0].Count)

	assert.Equal(t, models.RoleRangedDPS, record.Roles[1].Role)
	assert.Equal(t, "42", record.Roles[1].PreAssignedUser)

	assert.Equal(t, models.RoleMeleeDPS, record.Roles[2].Role)
	assert.Equal(t, "", record.Roles[2].PreAssignedUser)
}

func TestRolesFallBackToExtractedSlots(t *testing.T) {
	pre := preprocess.Context{
		ExtractedSlots: []preprocess.Slot{
			{Label: "TANK", UserRef: "100000000000000001"},
			{Label: "HEALER"},
		},
		PreAssignedRoles: []models.PreAssignedRole{
			{SlotName: "TANK", Role: models.RoleTank},
			{SlotName: "HEALER", Role: models.RoleHealer},
		},
	}
	record := run(t, pre, &models.ModelRaidDraft{})
	require.Len(t, record.Roles, 2)
	assert.Equal(t, "TANK", record.Roles[0].Name)
	assert.Equal(t, models.RoleTank, record.Roles[0].Role)
	assert.Equal(t, "100000000000000001", record.Roles[0].PreAssignedUser)
	assert.Equal(t, models.RoleHealer, record.Roles[1].Role)
}

func TestMaxParticipants(t *testing.T) {
	record := run(t, preprocess.Context{}, &models.ModelRaidDraft{MaxParticipants: iptr(20)})
	assert.Equal(t, 20, record.MaxParticipants)

	record = run(t, preprocess.Context{}, &models.ModelRaidDraft{MaxParticipants: iptr(-3)})
	assert.Equal(t, 0, record.MaxParticipants)
}
