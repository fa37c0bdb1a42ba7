package entity

import (
	"fmt"
	"unicode/utf8"
)

// Column widths of the persisted relations. Values longer than these are
// rejected up front instead of surfacing as storage errors.
const (
	MaxArticleIDLength = 90
	MaxHeadlineLength  = 450
	MaxEntityKindLen   = 45
	MaxEntityValueLen  = 90
	MaxTagNameLength   = 45
)

// ValidateArticleID checks that an article identifier is present and fits the column.
func ValidateArticleID(field, id string) error {
	if id == "" {
		return &ValidationError{Field: field, Message: "article_id is required"}
	}
	if utf8.RuneCountInString(id) > MaxArticleIDLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("article_id must not exceed %d characters", MaxArticleIDLength),
		}
	}
	return nil
}

// ValidateTagName checks that a tag name is non-empty and fits the column.
func ValidateTagName(field, name string) error {
	if name == "" {
		return &ValidationError{Field: field, Message: "tag must not be empty"}
	}
	if utf8.RuneCountInString(name) > MaxTagNameLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("tag must not exceed %d characters", MaxTagNameLength),
		}
	}
	return nil
}
