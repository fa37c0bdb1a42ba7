package article

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"article-tagger/internal/domain/entity"
)

// Criteria is the combined set of filters of a search request.
// An empty list, like a missing one, means the category was not requested.
type Criteria struct {
	ArticleIDs []string
	Headlines  []string
	Tags       []string
	// Entities maps an entity kind to the accepted values for that kind.
	// A kind listed with no values matches no article.
	Entities map[string][]string
}

// HasArticleFilter reports whether the article-attribute category was requested.
func (c Criteria) HasArticleFilter() bool {
	return len(c.ArticleIDs) > 0 || len(c.Headlines) > 0
}

// HasTagFilter reports whether the tag category was requested.
func (c Criteria) HasTagFilter() bool {
	return len(c.Tags) > 0
}

// HasEntityFilter reports whether the entity category was requested.
func (c Criteria) HasEntityFilter() bool {
	return len(c.Entities) > 0
}

// IsEmpty reports whether no filter category was requested.
func (c Criteria) IsEmpty() bool {
	return !c.HasArticleFilter() && !c.HasTagFilter() && !c.HasEntityFilter()
}

// EntityKinds returns the requested entity kinds in lexical order.
func (c Criteria) EntityKinds() []string {
	kinds := make([]string, 0, len(c.Entities))
	for k := range c.Entities {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Validate rejects criteria that cannot be turned into queries.
func (c Criteria) Validate() error {
	for _, k := range c.EntityKinds() {
		field := "entity." + k
		if k == "" {
			return &entity.ValidationError{Field: "entity", Message: "entity kind must not be empty"}
		}
		if utf8.RuneCountInString(k) > entity.MaxEntityKindLen {
			return &entity.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("entity kind must not exceed %d characters", entity.MaxEntityKindLen),
			}
		}
	}
	return nil
}
