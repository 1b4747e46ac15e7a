package notes

import (
	"strings"
	"unicode/utf8"

	"github.com/fyrsmithlabs/notesd/internal/storage"
)

// Field length limits.
const (
	maxTitleLen        = 200
	maxTagNameLen      = 50
	maxCategoryNameLen = 100
	maxColorLen        = 20
)

// emptyFieldMessage is the message returned for blank required fields.
const emptyFieldMessage = "Field cannot be empty or contain only whitespace"

// validateTitle trims a note title and checks it is non-blank and
// within the length limit.
func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", Validationf(emptyFieldMessage)
	}
	if utf8.RuneCountInString(trimmed) > maxTitleLen {
		return "", Validationf("Title must be at most %d characters", maxTitleLen)
	}
	return trimmed, nil
}

// validateContent trims note content and checks it is non-blank.
func validateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", Validationf(emptyFieldMessage)
	}
	return trimmed, nil
}

// validateDescription trims an action item description and checks it is
// non-blank.
func validateDescription(description string) (string, error) {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return "", Validationf("Description cannot be empty or contain only whitespace")
	}
	return trimmed, nil
}

// validateName trims an entity name and checks it is non-blank and
// within maxLen runes.
func validateName(name string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", Validationf(emptyFieldMessage)
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return "", Validationf("Name must be at most %d characters", maxLen)
	}
	return trimmed, nil
}

// validateColor checks an optional color value against the length limit.
func validateColor(color *string) error {
	if color != nil && utf8.RuneCountInString(*color) > maxColorLen {
		return Validationf("Color must be at most %d characters", maxColorLen)
	}
	return nil
}

// validateListOptions enforces the pagination bounds shared by list
// endpoints.
func validateListOptions(opts storage.ListOptions) error {
	if opts.Skip < 0 {
		return Validationf("skip must be greater than or equal to 0")
	}
	if opts.Limit < 1 || opts.Limit > storage.MaxLimit {
		return Validationf("limit must be between 1 and %d", storage.MaxLimit)
	}
	return nil
}
