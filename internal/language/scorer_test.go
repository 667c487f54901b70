package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreLanguagesSortedDescending(t *testing.T) {
	scores := ScoreLanguages("Raid tonight, need tank and healer, bring food and mount")

	require.NotEmpty(t, scores)
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1].Score, scores[i].Score)
	}
	for _, s := range scores {
		assert.GreaterOrEqual(t, s.Confidence, 0.0)
		assert.LessOrEqual(t, s.Confidence, 1.0)
	}
	assert.Equal(t, English, scores[0].Language)
}

func TestScoreLanguagesNumericOnly(t *testing.T) {
	assert.Empty(t, ScoreLanguages("12345 67 89 00"))
}

func TestScoreLanguagesEmpty(t *testing.T) {
	assert.Empty(t, ScoreLanguages(""))
}

func TestScoreLanguagesRussian(t *testing.T) {
	scores := ScoreLanguages("сбор на рейд сегодня, нужен танк и хил")

	require.NotEmpty(t, scores)
	assert.Equal(t, Russian, scores[0].Language)
}

func TestShortMessageMoreConfidentThanLong(t *testing.T) {
	short := ScoreLanguages("need tank healer")
	long := ScoreLanguages("need tank healer one two three four five six seven eight nine ten")

	require.NotEmpty(t, short)
	require.NotEmpty(t, long)
	assert.Greater(t, short[0].Confidence, long[0].Confidence)
	// Raw scores are the same; only confidence differs.
	assert.InDelta(t, short[0].Score, long[0].Score, 0.001)
}

func TestTieBreakIsStable(t *testing.T) {
	// "raid" is a keyword in several languages; the fixed priority order
	// must decide the winner identically on every run.
	for i := 0; i < 10; i++ {
		scores := ScoreLanguages("raid")
		require.NotEmpty(t, scores)
		assert.Equal(t, English, scores[0].Language)
	}
}
