package article

import (
	"context"
	"net/http"

	"article-tagger/internal/domain/entity"
	"article-tagger/internal/handler/http/respond"
	artUC "article-tagger/internal/usecase/article"
)

// Service is the article use case surface used by the handlers.
type Service interface {
	ListAll(ctx context.Context) ([]entity.ArticleHeadline, error)
	Search(ctx context.Context, c artUC.Criteria, order entity.SortOrder) ([]artUC.Record, error)
}

// HomeHandler answers the API root with a plain-text banner.
type HomeHandler struct{}

func (HomeHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	respond.Text(w, http.StatusOK, "Article tagger API home")
}

// ListHandler serves GET /api/get_all_articles.
type ListHandler struct {
	Svc  Service
	Mode respond.Mode
}

// ServeHTTP returns every article headline, newest first.
// @Summary      List all articles
// @Tags         articles
// @Produce      json
// @Success      200 {object} ListResponse
// @Failure      500 {object} respond.MessageBody
// @Router       /api/get_all_articles [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	headlines, err := h.Svc.ListAll(r.Context())
	if err != nil {
		respond.Failure(w, r, h.Mode, MsgListFailed, err)
		return
	}
	respond.JSON(w, http.StatusOK, ListResponse{
		Content: headlineDTOs(headlines),
		Message: MsgAllArticles,
	})
}
