package extract

import (
	"regexp"
	"strings"
)

// hashtagRe matches words starting with '#', composed of letters, digits,
// and underscores.
var hashtagRe = regexp.MustCompile(`#(\w+)`)

// Hashtags returns the normalized hashtag names found in text: lowercased,
// deduplicated, in first-seen order.
func Hashtags(text string) []string {
	matches := hashtagRe.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	result := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	return result
}
