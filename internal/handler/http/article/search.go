package article

import (
	"log/slog"
	"net/http"

	"article-tagger/internal/domain/entity"
	"article-tagger/internal/handler/http/decode"
	"article-tagger/internal/handler/http/respond"
	"article-tagger/internal/observability/logging"
)

// SearchHandler serves GET and POST /api/search_articles. Both methods read
// the criteria from a JSON body.
type SearchHandler struct {
	Svc  Service
	Mode respond.Mode
}

// ServeHTTP resolves the criteria and returns the matching articles keyed by id.
// @Summary      Search articles
// @Description  Filters are AND'ed across categories and OR'ed within a list.
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        criteria body SearchRequest true "search criteria"
// @Success      200 {object} SearchResponse
// @Failure      500 {object} respond.MessageBody
// @Router       /api/search_articles [get]
// @Router       /api/search_articles [post]
func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decode.JSON(r, &req); err != nil {
		respond.Failure(w, r, h.Mode, MsgSearchFailed, err)
		return
	}

	order := entity.ParseSortOrder(req.OrderByTime)
	records, err := h.Svc.Search(r.Context(), req.Criteria(), order)
	if err != nil {
		respond.Failure(w, r, h.Mode, MsgSearchFailed, err)
		return
	}

	logging.FromContext(r.Context()).Debug("search completed",
		slog.Int("results", len(records)),
		slog.String("order", order.String()))
	respond.JSON(w, http.StatusOK, SearchResponse{
		Content: recordDTOs(records),
		Message: MsgSearchResults,
	})
}
