package extract

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// Leading list markers stripped before classification.
	bulletMarkerRe  = regexp.MustCompile(`^\s*[-*•]\s+`)
	orderedMarkerRe = regexp.MustCompile(`^\s*\d+[.)]\s+`)

	// Keyword prefixes with an optional-whitespace colon, e.g. "TODO: x".
	keywordPrefixRe = regexp.MustCompile(`(?i)^(todo|action|fixme|bug|hack|note|reminder|warning|important|urgent|critical)\s*:`)

	letterRe = regexp.MustCompile(`[a-zA-Z]`)
)

// verbPhraseRes match lines that open with a modal or action phrase.
var verbPhraseRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(?:must|should|need to|remember to|ensure|make sure|consider|review)\b`),
	regexp.MustCompile(`(?i)^\s*(?:implement|add|remove|update|fix|refactor|test|verify|check|confirm)\b`),
	regexp.MustCompile(`(?i)^\s*(?:complete|finish|start|create|delete|modify|improve|optimize)\b`),
	regexp.MustCompile(`(?i)^\s*(?:document|clarify|resolve|address|handle|process|validate)\b`),
	regexp.MustCompile(`(?i)^\s*(?:deploy|rollback|merge|split|prioritize|schedule|assign)\b`),
	regexp.MustCompile(`(?i)^\s*(?:notify|inform|contact|follow up|investigate|analyze)\b`),
	regexp.MustCompile(`(?i)^\s*(?:evaluate|assess|monitor|track|log|debug|trace)\b`),
}

// imperativeVerbs is the smaller set used for capitalized-imperative
// detection ("Fix the flaky test", not "fix" mid-sentence).
var imperativeVerbs = map[string]struct{}{
	"add": {}, "update": {}, "fix": {}, "remove": {}, "create": {},
	"delete": {}, "modify": {}, "implement": {}, "test": {}, "verify": {},
	"check": {}, "review": {}, "complete": {}, "finish": {}, "start": {},
	"ensure": {}, "improve": {}, "refactor": {}, "document": {},
	"clarify": {}, "resolve": {}, "handle": {}, "process": {},
	"validate": {}, "deploy": {}, "merge": {}, "split": {},
	"prioritize": {}, "schedule": {}, "assign": {}, "notify": {},
	"investigate": {}, "analyze": {}, "monitor": {}, "track": {},
}

// RulesExtractor is the richest rule set. It classifies each line with
// four priority-ordered rules, skipping questions:
//
//  1. Keyword prefix (TODO:, FIXME:, ...)
//  2. Verb phrase at line start (must, should, need to, ...)
//  3. Exclamatory line ending in "!"
//  4. Capitalized imperative (first word an action verb, two or more words)
type RulesExtractor struct{}

// NewRulesExtractor creates the default rule-based extractor.
func NewRulesExtractor() *RulesExtractor {
	return &RulesExtractor{}
}

// Extract classifies every line of text and returns the actionable ones.
func (e *RulesExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	items := []string{}
	seen := make(map[string]struct{})

	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		cleaned := bulletMarkerRe.ReplaceAllString(strings.TrimSpace(line), "")
		cleaned = orderedMarkerRe.ReplaceAllString(cleaned, "")
		if utf8.RuneCountInString(cleaned) < 3 {
			continue
		}

		// Questions are never actionable.
		if strings.HasSuffix(strings.TrimRightFunc(cleaned, unicode.IsSpace), "?") {
			continue
		}
		if !letterRe.MatchString(cleaned) {
			continue
		}

		if !classify(cleaned) {
			continue
		}

		normalized := strings.TrimSpace(strings.ToLower(cleaned))
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		items = append(items, cleaned)
	}

	return items, nil
}

// classify applies the four rules in priority order.
func classify(line string) bool {
	if keywordPrefixRe.MatchString(line) {
		return true
	}

	for _, re := range verbPhraseRes {
		if re.MatchString(line) {
			return true
		}
	}

	if strings.HasSuffix(strings.TrimRightFunc(line, unicode.IsSpace), "!") {
		return true
	}

	// Capitalized imperative needs at least a verb and an object.
	words := strings.Fields(line)
	if len(words) >= 2 {
		if _, ok := imperativeVerbs[strings.ToLower(words[0])]; ok {
			first, _ := utf8.DecodeRuneInString(line)
			if unicode.IsUpper(first) {
				return true
			}
		}
	}

	return false
}

// Ensure RulesExtractor implements Extractor.
var _ Extractor = (*RulesExtractor)(nil)
