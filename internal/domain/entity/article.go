// Package entity defines the core domain entities and validation logic for the application.
// It contains the three persisted relations (articles, entity annotations and tags), along
// with their validation rules and domain-specific errors.
package entity

import "time"

// Article represents a news article row.
// Articles are created outside this service; the identifier is opaque and immutable.
type Article struct {
	ID                string
	Headline          string
	PublishedTime     time.Time
	PublisherTimezone string
	Content           *string // nil when the article has no stored body
	UpdatedAt         time.Time
	UpdatedBy         string
}

// ArticleHeadline is the projection returned when listing every article.
type ArticleHeadline struct {
	ID            string
	Headline      string
	PublishedTime time.Time
}

// Annotation is an extracted (kind, value) fact attached to an article,
// e.g. Kind "city" and Value "toronto".
type Annotation struct {
	ArticleID string
	Kind      string
	Value     string
}

// Tag is a free-form label attached to an article by an actor.
type Tag struct {
	ArticleID string
	Name      string
	Value     *string
	TaggedAt  time.Time
	TaggedBy  string
}

// SortOrder controls the publication-time ordering of search results.
type SortOrder int

const (
	// SortDescending lists the most recently published articles first. It is the default.
	SortDescending SortOrder = iota
	// SortAscending lists the oldest articles first.
	SortAscending
)

// ParseSortOrder maps the order_by_time request value to a SortOrder.
// Only the exact value "asc" selects ascending order; anything else is descending.
func ParseSortOrder(s string) SortOrder {
	if s == "asc" {
		return SortAscending
	}
	return SortDescending
}

// String returns the SQL keyword for the order.
func (o SortOrder) String() string {
	if o == SortAscending {
		return "ASC"
	}
	return "DESC"
}
