// Package extract pulls action items and hashtags out of free-form note
// text using rule-based pattern matching, with an optional LLM-backed
// provider.
//
// The package supports:
//   - Keyword-prefix detection (TODO:, FIXME:, ACTION:, ...)
//   - Verb-phrase and capitalized-imperative detection
//   - Bullet, checkbox, and numbered-list markers
//   - Hashtag extraction (#tag)
//   - LLM extraction against an OpenAI-compatible chat endpoint
//
// # Architecture
//
// Every provider implements the Extractor interface. Three rule sets are
// available because they classify differently and are deliberately kept
// separate rather than merged:
//
//   - RulesExtractor: the richest set. Priority-ordered keyword, verb-phrase,
//     exclamatory, and imperative rules with question filtering.
//   - BulletExtractor: keeps bullet/checkbox/keyword lines, and falls back
//     to sentence splitting when no line matches.
//   - SimpleExtractor: keeps only lines ending in "!" or starting "todo:".
//
// All providers deduplicate output by lowercase form, preserving first-seen
// order, and never fail on any text input.
//
// # Usage
//
// Create a provider from configuration:
//
//	extractor, err := extract.New(cfg.Extract)
//	if err != nil {
//	    return err
//	}
//	items, err := extractor.Extract(ctx, "- [ ] Ship the release\nTODO: tag it")
//
// Hashtags are a separate pure function:
//
//	tags := extract.Hashtags("deploy #infra changes for #Infra team")
//	// ["infra"]
package extract
