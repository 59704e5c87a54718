package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitEmails_TwoLanguages(t *testing.T) {
	raw := "=== English Email ===\nSubject: Hello\n\nDear team,\n\n=== 中文 Email ===\n主题：你好\n\n尊敬的团队，\n"

	got := SplitEmails(raw)
	assert.Equal(t, []string{
		"Subject: Hello\n\nDear team,",
		"主题：你好\n\n尊敬的团队，",
	}, got)
}

func TestSplitEmails_NoMarkers(t *testing.T) {
	assert.Equal(t, []string{"Subject: Hi\nBody"}, SplitEmails("  Subject: Hi\nBody \n"))
	assert.Empty(t, SplitEmails(" \n "))
}

func TestSplitEmails_RequiresSpacedMarker(t *testing.T) {
	// "===English Email===" is not a marker; the whole reply stays one segment
	got := SplitEmails("===English Email===\nBody")
	assert.Len(t, got, 1)
}

func TestFormatEmail(t *testing.T) {
	in := "\n  Subject: Partnership  \n\n\n   Dear Acme,\n  We make valves.  \n\nBest,\n Bob\n"
	assert.Equal(t, "Subject: Partnership\n\nDear Acme,\n\nWe make valves.\n\nBest,\n\nBob", FormatEmail(in))
	assert.Equal(t, "", FormatEmail("  \n \n"))
}

func TestParseEmails(t *testing.T) {
	e := ParseEmails("=== English Email ===\nA\nB\n=== Deutsch Email ===\nC")
	assert.Equal(t, Emails{English: "A\n\nB", Other: "C"}, e)

	e = ParseEmails("Subject: only english")
	assert.Equal(t, Emails{English: "Subject: only english"}, e)
}

func TestMergeKeywords(t *testing.T) {
	merged, added := MergeKeywords([]string{"x"}, []string{"x", "w"})
	assert.Equal(t, []string{"x", "w"}, merged)
	assert.Equal(t, []string{"w"}, added)

	again, addedAgain := MergeKeywords(merged, []string{"x", "w"})
	assert.Equal(t, merged, again)
	assert.Empty(t, addedAgain)

	merged, added = MergeKeywords(nil, []string{"a", " a ", "", "b"})
	assert.Equal(t, []string{"a", "b"}, merged)
	assert.Equal(t, []string{"a", "b"}, added)
}
