package dispatcher

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// keywordsSection captures everything after the "Keywords:" label.
var keywordsSection = regexp.MustCompile(`(?s)Keywords:\s*(.+)$`)

// ParseExtractedKeywords reads the labeled keyword section of a keyword
// extraction reply: "Summary: ...\n\nKeywords:\na, b, c".
func ParseExtractedKeywords(reply string) ([]string, error) {
	m := keywordsSection.FindStringSubmatch(reply)
	if m == nil {
		return nil, ErrKeywordsNotFound
	}
	keywords := ParseKeywordList(m[1])
	if len(keywords) == 0 {
		return nil, ErrKeywordsNotFound
	}
	return keywords, nil
}

// ParseKeywordList splits a comma separated reply, trims every entry and drops
// empty ones. Order is preserved; the result is never nil.
func ParseKeywordList(reply string) []string {
	parts := lo.Map(strings.Split(reply, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(parts)
}
