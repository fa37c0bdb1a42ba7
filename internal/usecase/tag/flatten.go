// Package tag implements the tag ingestion use case: a batch of
// (article, tag names) requests is flattened into tag rows and appended in a
// single transaction.
package tag

import (
	"fmt"
	"time"

	"article-tagger/internal/domain/entity"
)

// Request asks for Tags to be attached to the article ArticleID.
// A nil Tags is malformed; an empty list is accepted and adds nothing.
type Request struct {
	ArticleID string
	Tags      []string
}

// Flatten expands batch into one tag row per (article, tag name) pair, stamped
// with actor and now. Rows keep the article-major, tag-minor order of the
// batch and duplicates are preserved. Article existence is not checked.
func Flatten(batch []Request, actor string, now time.Time) ([]entity.Tag, error) {
	total := 0
	for i, req := range batch {
		if err := entity.ValidateArticleID(fmt.Sprintf("[%d].article_id", i), req.ArticleID); err != nil {
			return nil, err
		}
		if req.Tags == nil {
			return nil, &entity.ValidationError{
				Field:   fmt.Sprintf("[%d].tags", i),
				Message: "tags must be a list",
			}
		}
		for j, name := range req.Tags {
			if err := entity.ValidateTagName(fmt.Sprintf("[%d].tags[%d]", i, j), name); err != nil {
				return nil, err
			}
		}
		total += len(req.Tags)
	}

	rows := make([]entity.Tag, 0, total)
	for _, req := range batch {
		for _, name := range req.Tags {
			rows = append(rows, entity.Tag{
				ArticleID: req.ArticleID,
				Name:      name,
				TaggedAt:  now,
				TaggedBy:  actor,
			})
		}
	}
	return rows, nil
}
