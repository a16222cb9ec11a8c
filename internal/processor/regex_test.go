package processor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		pattern string
		want    bool
	}{
		{
			name:    "literal match",
			text:    "operation completed in 42ms",
			pattern: "completed",
			want:    true,
		},
		{
			name:    "digit class match",
			text:    "operation completed in 42ms",
			pattern: `\d+ms`,
			want:    true,
		},
		{
			name:    "no match",
			text:    "operation completed",
			pattern: `^\d+$`,
			want:    false,
		},
		{
			name:    "anchored match",
			text:    "2025-05-16 report",
			pattern: `^\d{4}-\d{2}-\d{2}`,
			want:    true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newTestProcessor(t)

			matched, err := p.MatchPattern(context.Background(), tc.text, tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.want, matched)
		})
	}
}

func TestMatchPatternInvalid(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t)

	matched, err := p.MatchPattern(context.Background(), "text", "(unclosed")
	require.Error(t, err)
	assert.False(t, matched)
	assert.True(t, p.HasErrors())

	var procErr *ProcessorError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "match_pattern", procErr.Operation)
}

func TestExtractMatches(t *testing.T) {
	t.Parallel()

	t.Run("all matches in order", func(t *testing.T) {
		p, _ := newTestProcessor(t)

		matches, err := p.ExtractMatches(context.Background(), "ids: 17, 42, 117", `\d+`)
		require.NoError(t, err)
		assert.Equal(t, []string{"17", "42", "117"}, matches)
	})

	t.Run("no matches yields empty slice", func(t *testing.T) {
		p, _ := newTestProcessor(t)

		matches, err := p.ExtractMatches(context.Background(), "no numbers here", `\d+`)
		require.NoError(t, err)
		assert.NotNil(t, matches)
		assert.Empty(t, matches)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		p, _ := newTestProcessor(t)

		matches, err := p.ExtractMatches(context.Background(), "text", "[broken")
		require.Error(t, err)
		assert.Nil(t, matches)
	})
}
