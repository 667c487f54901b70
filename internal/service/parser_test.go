package service

import (
	"context"
	"errors"
	"testing"

	"raid-parser/internal/contenttype"
	"raid-parser/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockLLM is a scripted LLMClient that counts calls.
type mockLLM struct {
	validateResult bool
	result         *models.DraftResult
	draftErr       error

	validateCalls int
	draftCalls    int
}

func (m *mockLLM) GenerateDraft(ctx context.Context, system, userPrompt string) (*models.DraftResult, error) {
	m.draftCalls++
	if m.draftErr != nil {
		return nil, m.draftErr
	}
	return m.result, nil
}

func (m *mockLLM) Validate(ctx context.Context, question string) bool {
	m.validateCalls++
	return m.validateResult
}

func (m *mockLLM) Close() error { return nil }

func TestParseNotRaidRelatedShortCircuits(t *testing.T) {
	mock := &mockLLM{validateResult: false}
	parser := NewParser(mock, nil, nil, zap.NewNop())

	record, err := parser.Parse(context.Background(), "what's for dinner?", nil)
	require.Error(t, err)
	assert.Nil(t, record)

	var parseErr *models.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.ErrorIs(t, err, models.ErrNotRaidRelated)
	assert.Equal(t, 0.0, parseErr.Confidence)
	assert.Equal(t, "what's for dinner?", parseErr.Message)

	assert.Equal(t, 1, mock.validateCalls)
	assert.Equal(t, 0, mock.draftCalls, "full-parse completion must not be issued for irrelevant messages")
}

func TestParseHappyPath(t *testing.T) {
	conf := 0.85
	ctConf := 0.9
	mock := &mockLLM{
		validateResult: true,
		result: &models.DraftResult{
			Draft: &models.ModelRaidDraft{
				Title:           "Golden chest roads",
				ContentType:     contenttype.TypeRoadsPVE,
				ContentTypeConf: &ctConf,
				Confidence:      &conf,
				Roles: []models.DraftRole{
					{Name: "Tank", Role: "tank", PreAssignedUser: "100000000000000001"},
				},
			},
			Raw:          `{"title":"Golden chest roads"}`,
			Provider:     "mock",
			ModelVersion: "mock-1",
		},
	}
	parser := NewParser(mock, nil, nil, zap.NewNop())

	msg := "Roads tonight, golden chest!\nTank: <@100000000000000001>\nstart 20:00"
	record, err := parser.Parse(context.Background(), msg, nil)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "Golden chest roads", record.Title)
	assert.Equal(t, contenttype.TypeRoadsPVE, record.ContentType)
	assert.Equal(t, 0.85, record.Confidence)
	assert.Equal(t, "mock", record.Provider)
	assert.Equal(t, "mock-1", record.ModelVersion)
	assert.Equal(t, 20, record.Date.Hour())
	assert.Equal(t, 0, record.Date.Minute())
	require.Len(t, record.Roles, 1)
	assert.Equal(t, models.RoleTank, record.Roles[0].Role)

	assert.Equal(t, 1, mock.validateCalls)
	assert.Equal(t, 1, mock.draftCalls)
}

func TestParseAttachesMessageToParseError(t *testing.T) {
	mock := &mockLLM{
		validateResult: true,
		draftErr: &models.ParseError{
			Err: models.ErrNoJSON,
			Raw: "the model rambled",
		},
	}
	parser := NewParser(mock, nil, nil, zap.NewNop())

	_, err := parser.Parse(context.Background(), "zvz massing now", nil)
	require.Error(t, err)

	var parseErr *models.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "zvz massing now", parseErr.Message)
	assert.Equal(t, "the model rambled", parseErr.Raw)
}

func TestParsePassesThroughServiceError(t *testing.T) {
	mock := &mockLLM{
		validateResult: true,
		draftErr:       &models.ServiceError{Provider: "groq", StatusCode: 429, Err: errors.New("rate limited")},
	}
	parser := NewParser(mock, nil, nil, zap.NewNop())

	_, err := parser.Parse(context.Background(), "hellgate 5v5 20:00", nil)
	require.Error(t, err)

	var svcErr *models.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 429, svcErr.StatusCode)
}

func TestValidateDelegates(t *testing.T) {
	mock := &mockLLM{validateResult: true}
	parser := NewParser(mock, nil, nil, zap.NewNop())

	assert.True(t, parser.Validate(context.Background(), "roads run"))
	assert.Equal(t, 1, mock.validateCalls)
}

func TestRaidsAndStatsWithoutRepo(t *testing.T) {
	parser := NewParser(&mockLLM{}, nil, nil, zap.NewNop())

	raids, err := parser.Raids(10)
	require.NoError(t, err)
	assert.Nil(t, raids)

	stats, err := parser.Stats()
	require.NoError(t, err)
	assert.Empty(t, stats)
}
