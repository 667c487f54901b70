package llm

import (
	"context"
	"errors"
	"testing"

	"raid-parser/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubProvider is a scripted Provider for failover tests.
type stubProvider struct {
	name  string
	out   string
	err   error
	calls int
}

func (s *stubProvider) Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.out, nil
}

func (s *stubProvider) Close() error { return nil }
func (s *stubProvider) Name() string { return s.name }
func (s *stubProvider) ModelInfo() map[string]interface{} {
	return map[string]interface{}{"provider": s.name, "model": s.name + "-model"}
}

func newTestClient(maxFailures int, stubs ...*stubProvider) *Client {
	logger := zap.NewNop()
	providers := make([]*RateLimitedProvider, 0, len(stubs))
	for _, s := range stubs {
		providers = append(providers, NewRateLimitedProvider(s, 60, logger))
	}
	return &Client{
		providers:    providers,
		logger:       logger,
		failureCount: make(map[int]int),
		maxFailures:  maxFailures,
	}
}

func TestCompleteUsesCurrentProvider(t *testing.T) {
	first := &stubProvider{name: "first", out: "ok"}
	second := &stubProvider{name: "second", out: "never"}
	client := newTestClient(3, first, second)

	out, err := client.Complete(context.Background(), "", "ping", 10)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestCompleteSwitchesOnRateLimit(t *testing.T) {
	first := &stubProvider{name: "first", err: errors.New("HTTP 429: rate limit exceeded")}
	second := &stubProvider{name: "second", out: "ok"}
	client := newTestClient(3, first, second)

	out, err := client.Complete(context.Background(), "", "ping", 10)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestCompleteStaysOnTransientFailure(t *testing.T) {
	// A single non-rate-limit failure under maxFailures exhausts the attempt
	// budget without switching away from the current provider.
	first := &stubProvider{name: "first", err: errors.New("upstream hiccup")}
	second := &stubProvider{name: "second", out: "ok"}
	client := newTestClient(3, first, second)

	_, err := client.Complete(context.Background(), "", "ping", 10)
	require.Error(t, err)
	assert.Equal(t, 2, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestCompleteSwitchesAfterMaxFailures(t *testing.T) {
	first := &stubProvider{name: "first", err: errors.New("upstream hiccup")}
	second := &stubProvider{name: "second", out: "ok"}
	client := newTestClient(1, first, second)

	out, err := client.Complete(context.Background(), "", "ping", 10)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestGenerateDraftParsesModelJSON(t *testing.T) {
	stub := &stubProvider{name: "stub", out: "```json\n{\"title\":\"Roads run\",\"confidence\":0.8}\n```"}
	client := newTestClient(3, stub)

	res, err := client.GenerateDraft(context.Background(), "sys", "prompt")
	require.NoError(t, err)
	require.NotNil(t, res.Draft)
	assert.Equal(t, "Roads run", res.Draft.Title)
	require.NotNil(t, res.Draft.Confidence)
	assert.Equal(t, 0.8, *res.Draft.Confidence)
	assert.Contains(t, res.Raw, "```json")
	assert.Equal(t, "stub", res.Provider)
	assert.Equal(t, "stub-model", res.ModelVersion)
}

func TestGenerateDraftAttributesServingProvider(t *testing.T) {
	// The completion that survives a failover switch must be credited to the
	// provider that actually served it, not whichever is current afterwards.
	first := &stubProvider{name: "first", err: errors.New("upstream hiccup")}
	second := &stubProvider{name: "second", out: `{"title":"ZvZ massing"}`}
	client := newTestClient(1, first, second)

	res, err := client.GenerateDraft(context.Background(), "sys", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "second", res.Provider)
	assert.Equal(t, "second-model", res.ModelVersion)
}

func TestGenerateDraftNoJSONIsParseError(t *testing.T) {
	stub := &stubProvider{name: "stub", out: "sorry, I cannot help with that"}
	client := newTestClient(3, stub)

	res, err := client.GenerateDraft(context.Background(), "sys", "prompt")
	assert.Nil(t, res)

	var parseErr *models.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.ErrorIs(t, err, models.ErrNoJSON)
	assert.Equal(t, "sorry, I cannot help with that", parseErr.Raw)
}

func TestGenerateDraftMalformedJSONIsParseError(t *testing.T) {
	stub := &stubProvider{name: "stub", out: `{"title": 123, "roles": "not an array"}`}
	client := newTestClient(3, stub)

	res, err := client.GenerateDraft(context.Background(), "sys", "prompt")
	assert.Nil(t, res)

	var parseErr *models.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestValidate(t *testing.T) {
	client := newTestClient(3, &stubProvider{name: "stub", out: "  True \n"})
	assert.True(t, client.Validate(context.Background(), "raid?"))

	client = newTestClient(3, &stubProvider{name: "stub", out: "false"})
	assert.False(t, client.Validate(context.Background(), "raid?"))

	client = newTestClient(3, &stubProvider{name: "stub", err: errors.New("boom")})
	assert.False(t, client.Validate(context.Background(), "raid?"))
}

func TestModelInfoReportsChainPosition(t *testing.T) {
	client := newTestClient(3, &stubProvider{name: "first"}, &stubProvider{name: "second"})
	info := client.ModelInfo()
	assert.Equal(t, "first", info["provider"])
	assert.Equal(t, 0, info["provider_index"])
	assert.Equal(t, 2, info["total_providers"])
}
