package extract

import (
	"context"
	"strings"
)

// Extractor produces action items from free-form text.
type Extractor interface {
	// Extract returns the action items found in text, deduplicated by
	// lowercase form, in first-seen order. Rule-based providers never
	// return an error; the LLM provider can.
	Extract(ctx context.Context, text string) ([]string, error)
}

// NoopExtractor ignores its input and extracts nothing.
type NoopExtractor struct{}

// Extract returns an empty slice.
func (n *NoopExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	return []string{}, nil
}

// splitLines splits text on \n, \r\n, and bare \r line endings.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// dedupe drops items whose lowercase form has been seen, preserving
// first-seen order.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	unique := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}

// Ensure NoopExtractor implements Extractor.
var _ Extractor = (*NoopExtractor)(nil)
