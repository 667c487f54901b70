package llm

import (
	"testing"

	"raid-parser/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONPlain(t *testing.T) {
	out, err := ExtractJSON(`{"title":"Roads"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Roads"}`, out)
}

func TestExtractJSONMarkdownFence(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"title\":\"Roads\",\"confidence\":0.8}\n```\nHope that helps!"
	out, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Roads","confidence":0.8}`, out)
}

func TestExtractJSONNested(t *testing.T) {
	raw := `prefix {"a":{"b":[1,2,{"c":3}]},"d":"x"} suffix {"ignored":true}`
	out, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"b":[1,2,{"c":3}]},"d":"x"}`, out)
}

func TestExtractJSONBracesInStrings(t *testing.T) {
	raw := `{"note":"use } and { carefully","ok":true}`
	out, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestExtractJSONEscapedQuote(t *testing.T) {
	raw := `{"note":"he said \"go\" {now}"}`
	out, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestExtractJSONNone(t *testing.T) {
	_, err := ExtractJSON("the model rambled and returned no payload")
	assert.ErrorIs(t, err, models.ErrNoJSON)

	_, err = ExtractJSON("")
	assert.ErrorIs(t, err, models.ErrNoJSON)

	// An opening brace that never closes is not a payload.
	_, err = ExtractJSON(`{"title": "unterminated`)
	assert.ErrorIs(t, err, models.ErrNoJSON)
}
