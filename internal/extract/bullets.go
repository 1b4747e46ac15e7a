package extract

import (
	"context"
	"regexp"
	"strings"
	"unicode"
)

// listMarkerRe matches bullet and numbered-list markers at line start.
var listMarkerRe = regexp.MustCompile(`^\s*([-*•]|\d+\.)\s+`)

// actionPrefixes mark a line as actionable regardless of list markers.
var actionPrefixes = []string{"todo:", "action:", "next:"}

// sentenceStarters is the imperative set used only by the sentence fallback.
var sentenceStarters = map[string]struct{}{
	"add": {}, "create": {}, "implement": {}, "fix": {}, "update": {},
	"write": {}, "check": {}, "verify": {}, "refactor": {}, "document": {},
	"design": {}, "investigate": {},
}

var firstWordRe = regexp.MustCompile(`[A-Za-z']+`)

// BulletExtractor keeps lines carrying a list marker, an action keyword
// prefix, or a checkbox token. When no line matches at all, it falls back
// to splitting the text into sentences and keeping the imperative ones.
type BulletExtractor struct{}

// NewBulletExtractor creates the bullet and checkbox based extractor.
func NewBulletExtractor() *BulletExtractor {
	return &BulletExtractor{}
}

// Extract returns the actionable lines of text, or imperative sentences
// when no line qualifies.
func (e *BulletExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	extracted := []string{}

	for _, rawLine := range splitLines(text) {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if !isActionLine(line) {
			continue
		}

		cleaned := strings.TrimSpace(listMarkerRe.ReplaceAllString(line, ""))
		cleaned = strings.TrimSpace(trimPrefixFold(cleaned, "[ ]"))
		cleaned = strings.TrimSpace(trimPrefixFold(cleaned, "[todo]"))
		if cleaned == "" {
			continue
		}
		extracted = append(extracted, cleaned)
	}

	if len(extracted) == 0 {
		for _, sentence := range splitSentences(strings.TrimSpace(text)) {
			s := strings.TrimSpace(sentence)
			if s == "" {
				continue
			}
			if looksImperative(s) {
				extracted = append(extracted, s)
			}
		}
	}

	return dedupe(extracted), nil
}

// isActionLine reports whether a trimmed line should be kept.
func isActionLine(line string) bool {
	lowered := strings.ToLower(line)
	if listMarkerRe.MatchString(lowered) {
		return true
	}
	for _, prefix := range actionPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return true
		}
	}
	return strings.Contains(lowered, "[ ]") || strings.Contains(lowered, "[todo]")
}

// looksImperative reports whether a sentence opens with an imperative verb.
func looksImperative(sentence string) bool {
	word := firstWordRe.FindString(sentence)
	if word == "" {
		return false
	}
	_, ok := sentenceStarters[strings.ToLower(word)]
	return ok
}

// trimPrefixFold strips prefix case-insensitively.
func trimPrefixFold(s, prefix string) string {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):]
	}
	return s
}

// splitSentences splits text after ".", "!", or "?" followed by whitespace,
// consuming the whitespace run.
func splitSentences(text string) []string {
	var parts []string
	runes := []rune(text)
	start := 0
	i := 0
	for i < len(runes) {
		r := runes[i]
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			parts = append(parts, string(runes[start:i+1]))
			i++
			for i < len(runes) && unicode.IsSpace(runes[i]) {
				i++
			}
			start = i
			continue
		}
		i++
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}

// Ensure BulletExtractor implements Extractor.
var _ Extractor = (*BulletExtractor)(nil)
