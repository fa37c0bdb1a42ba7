// Package tag provides the HTTP handler that attaches tags to articles.
package tag

import (
	"context"
	"log/slog"
	"net/http"

	"article-tagger/internal/domain/entity"
	"article-tagger/internal/handler/http/decode"
	"article-tagger/internal/handler/http/respond"
	"article-tagger/internal/observability/logging"
	tagUC "article-tagger/internal/usecase/tag"
)

const (
	MsgTagged    = "Tagging successful!"
	MsgTagFailed = "Tagging unsuccessful!"
)

// Tagger is the tag use case surface used by the handler.
type Tagger interface {
	TagArticles(ctx context.Context, batch []tagUC.Request) ([]entity.Tag, error)
}

// RequestDTO asks for tags to be attached to one article.
type RequestDTO struct {
	ArticleID string   `json:"article_id" example:"abc123"`
	Tags      []string `json:"tags" example:"news,global"`
}

// InsertedDTO describes one stored tag row.
type InsertedDTO struct {
	ArticleID string `json:"article_id"`
	Tag       string `json:"tag"`
	TaggedBy  string `json:"tagged_by"`
}

// Response is the body of a successful tag_article call.
type Response struct {
	InsertedTags []InsertedDTO `json:"inserted_tags"`
	Message      string        `json:"message"`
}

// Handler serves POST /api/tag_article.
type Handler struct {
	Svc  Tagger
	Mode respond.Mode
}

// ServeHTTP stores every requested tag in one transaction.
// @Summary      Tag articles
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        batch body []RequestDTO true "tags per article"
// @Success      200 {object} Response
// @Failure      500 {object} respond.MessageBody
// @Router       /api/tag_article [post]
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var batch []RequestDTO
	if err := decode.JSON(r, &batch); err != nil {
		respond.Failure(w, r, h.Mode, MsgTagFailed, err)
		return
	}

	reqs := make([]tagUC.Request, len(batch))
	for i, b := range batch {
		reqs[i] = tagUC.Request{ArticleID: b.ArticleID, Tags: b.Tags}
	}

	inserted, err := h.Svc.TagArticles(r.Context(), reqs)
	if err != nil {
		respond.Failure(w, r, h.Mode, MsgTagFailed, err)
		return
	}

	out := make([]InsertedDTO, 0, len(inserted))
	for _, t := range inserted {
		out = append(out, InsertedDTO{ArticleID: t.ArticleID, Tag: t.Name, TaggedBy: t.TaggedBy})
	}
	logging.FromContext(r.Context()).Info("tags inserted",
		slog.Int("articles", len(batch)),
		slog.Int("tags", len(out)))
	respond.JSON(w, http.StatusOK, Response{InsertedTags: out, Message: MsgTagged})
}

// Register registers the tag route with the given mux.
func Register(mux *http.ServeMux, svc Tagger, mode respond.Mode) {
	mux.Handle("POST /api/tag_article", Handler{Svc: svc, Mode: mode})
}
