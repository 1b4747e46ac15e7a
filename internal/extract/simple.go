package extract

import (
	"context"
	"strings"
)

// SimpleExtractor applies the two cheapest rules: a line is actionable if
// it ends in "!" or starts with "todo:" (case-insensitive). Marker
// stripping is limited to a leading "- " prefix.
type SimpleExtractor struct{}

// NewSimpleExtractor creates the minimal rule-based extractor.
func NewSimpleExtractor() *SimpleExtractor {
	return &SimpleExtractor{}
}

// Extract returns the lines of text ending in "!" or starting "todo:".
func (e *SimpleExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	items := []string{}
	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		trimmed = strings.TrimPrefix(trimmed, "- ")
		if strings.HasSuffix(trimmed, "!") || strings.HasPrefix(strings.ToLower(trimmed), "todo:") {
			items = append(items, trimmed)
		}
	}
	return dedupe(items), nil
}

// Ensure SimpleExtractor implements Extractor.
var _ Extractor = (*SimpleExtractor)(nil)
