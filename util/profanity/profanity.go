// Package profanity is a stateless whole-word matcher used once at book
// creation time to set the stored has_profanity flag. Titles are never
// re-scanned on read.
package profanity

import (
	"os"
	"regexp"
	"strings"
)

// defaultWords is a minimal list of common English profanity. Libraries can
// extend it via the PROFANITY_WORDS_CUSTOM env var (comma-separated).
var defaultWords = []string{
	"damn",
	"hell",
	"ass",
	"bastard",
	"bitch",
	"crap",
	"shit",
	"fuck",
	"piss",
}

type Matcher struct {
	pattern *regexp.Regexp
}

func New() *Matcher {
	return NewWithWords(loadWords())
}

// NewWithWords builds a matcher over an explicit word list. Whole-word
// matching only, so "assassin" does not match "ass".
func NewWithWords(words []string) *Matcher {
	escaped := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(strings.ToLower(w))
		if w == "" {
			continue
		}
		escaped = append(escaped, regexp.QuoteMeta(w))
	}
	if len(escaped) == 0 {
		return &Matcher{}
	}
	p := regexp.MustCompile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`)
	return &Matcher{pattern: p}
}

func (m *Matcher) Contains(text string) bool {
	if m.pattern == nil || text == "" {
		return false
	}
	return m.pattern.MatchString(text)
}

// Clean replaces each matched word with asterisks of the same length.
func (m *Matcher) Clean(text string) string {
	if m.pattern == nil || text == "" {
		return text
	}
	return m.pattern.ReplaceAllStringFunc(text, func(match string) string {
		return strings.Repeat("*", len(match))
	})
}

func loadWords() []string {
	words := append([]string(nil), defaultWords...)
	if custom := os.Getenv("PROFANITY_WORDS_CUSTOM"); custom != "" {
		for _, w := range strings.Split(custom, ",") {
			if w = strings.TrimSpace(strings.ToLower(w)); w != "" {
				words = append(words, w)
			}
		}
	}
	return words
}
