package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtractedKeywords(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{"labeled list", "Keywords:\n a, b ,c", []string{"a", "b", "c"}},
		{"with summary", "Summary:\nPumps for industry.\n\nKeywords:\nindustrial pumps, Acme, water pumps", []string{"industrial pumps", "Acme", "water pumps"}},
		{"same line", "Keywords: one, two", []string{"one", "two"}},
		{"drops empties", "Keywords:\n a,, ,b,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExtractedKeywords(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseExtractedKeywords_MissingMarker(t *testing.T) {
	for _, reply := range []string{
		"",
		"a, b, c",
		"Summary:\nno keyword section here",
		"Keywords:\n , , ",
	} {
		_, err := ParseExtractedKeywords(reply)
		assert.ErrorIs(t, err, ErrKeywordsNotFound, "reply %q", reply)
	}
}

func TestParseKeywordList(t *testing.T) {
	assert.Equal(t, []string{"x", "y", "z"}, ParseKeywordList("x, y,  z"))
	assert.Equal(t, []string{"solo"}, ParseKeywordList("  solo \n"))

	empty := ParseKeywordList(" , ")
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
