// Package stringutils holds small string helpers shared across packages.
package stringutils

import (
	"regexp"
	"strings"
)

var reThink = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Truncate shortens a string to at most n characters, adding "..." if it was truncated.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// StripThink removes <think>…</think> blocks that some models embed.
func StripThink(s string) string {
	return reThink.ReplaceAllString(s, "")
}

// StripQuotes removes one matching pair of surrounding single or double
// quotes. LLMs occasionally quote converted values despite being told not to.
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// TitleLabel turns a parameter key like "start_datetime" or "attendee-email"
// into a human-friendly label ("Start Datetime").
func TitleLabel(key string) string {
	key = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(key)
	words := strings.Fields(key)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
