// Package article provides HTTP handlers for the read-side article endpoints:
// the API home, listing every article and the multi-criteria search.
package article

import (
	"bytes"
	"encoding/json"
	"time"

	"article-tagger/internal/domain/entity"
	artUC "article-tagger/internal/usecase/article"
)

// Success messages.
const (
	MsgAllArticles   = "All articles returned"
	MsgSearchResults = "Search results returned"
)

// Failure messages.
const (
	MsgListFailed   = "Unable to fetch articles!"
	MsgSearchFailed = "Unable to perform search!"
)

// HeadlineDTO is one entry of the get_all_articles listing.
type HeadlineDTO struct {
	ArticleID     string    `json:"article_id" example:"abc123"`
	Headline      string    `json:"headline" example:"Storm hits coast"`
	PublishedTime time.Time `json:"published_time" example:"2024-03-01T09:00:00Z"`
}

// ListResponse is the body of a successful get_all_articles call.
type ListResponse struct {
	Content []HeadlineDTO `json:"content"`
	Message string        `json:"message"`
}

// SearchRequest is the body of a search_articles call. Every filter is
// optional; an absent or null filter is not applied.
type SearchRequest struct {
	ArticleID   []string            `json:"article_id"`
	Headline    []string            `json:"headline"`
	Tag         []string            `json:"tag"`
	Entity      map[string][]string `json:"entity"`
	OrderByTime string              `json:"order_by_time"`
}

// Criteria converts the request into resolver criteria.
func (r SearchRequest) Criteria() artUC.Criteria {
	return artUC.Criteria{
		ArticleIDs: r.ArticleID,
		Headlines:  r.Headline,
		Tags:       r.Tag,
		Entities:   r.Entity,
	}
}

// RecordDTO is one article in a search result. Entity and Tags are omitted
// when nothing is attached.
type RecordDTO struct {
	ArticleID         string              `json:"article_id"`
	Headline          string              `json:"headline"`
	PublishedTime     time.Time           `json:"published_time"`
	PublisherTimezone string              `json:"publisher_timezone"`
	ArticleContent    *string             `json:"article_content"`
	Entity            map[string][]string `json:"entity,omitempty"`
	Tags              []string            `json:"tags,omitempty"`
}

// SearchContent encodes as a JSON object keyed by article id whose keys keep
// the order of the records.
type SearchContent []RecordDTO

// MarshalJSON implements json.Marshaler.
func (c SearchContent) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rec := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(rec.ArticleID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SearchResponse is the body of a successful search_articles call.
type SearchResponse struct {
	Content SearchContent `json:"content"`
	Message string        `json:"message"`
}

func headlineDTOs(headlines []entity.ArticleHeadline) []HeadlineDTO {
	out := make([]HeadlineDTO, 0, len(headlines))
	for _, h := range headlines {
		out = append(out, HeadlineDTO{
			ArticleID:     h.ID,
			Headline:      h.Headline,
			PublishedTime: h.PublishedTime,
		})
	}
	return out
}

func recordDTOs(records []artUC.Record) SearchContent {
	out := make(SearchContent, 0, len(records))
	for _, r := range records {
		out = append(out, RecordDTO{
			ArticleID:         r.Article.ID,
			Headline:          r.Article.Headline,
			PublishedTime:     r.Article.PublishedTime,
			PublisherTimezone: r.Article.PublisherTimezone,
			ArticleContent:    r.Article.Content,
			Entity:            r.Entities,
			Tags:              r.Tags,
		})
	}
	return out
}
