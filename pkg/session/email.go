package session

import (
	"regexp"
	"strings"
)

var emailMarker = regexp.MustCompile(`===\s.*?Email\s===`)

// Emails is the latest generated email pair. Other is empty for English pages.
type Emails struct {
	English string `json:"english" yaml:"english"`
	Other   string `json:"other,omitempty" yaml:"other,omitempty"`
}

// SplitEmails cuts a raw reply on "=== <label> Email ===" markers and
// returns the non-empty trimmed segments in source order. A reply without
// markers is a single segment.
func SplitEmails(text string) []string {
	var segments []string
	for _, part := range emailMarker.Split(text, -1) {
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// FormatEmail trims every line, drops blank ones and separates the rest
// with an empty line.
func FormatEmail(segment string) string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(segment), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n\n")
}

// ParseEmails splits and formats a raw email reply.
func ParseEmails(text string) Emails {
	segments := SplitEmails(text)
	var e Emails
	if len(segments) >= 1 {
		e.English = FormatEmail(segments[0])
	}
	if len(segments) >= 2 {
		e.Other = FormatEmail(segments[1])
	}
	return e
}
