package article

import (
	"net/http"

	"article-tagger/internal/handler/http/respond"
)

// Register registers the article routes with the given mux.
func Register(mux *http.ServeMux, svc Service, mode respond.Mode) {
	mux.Handle("GET /{$}", HomeHandler{})
	mux.Handle("GET /api/get_all_articles", ListHandler{Svc: svc, Mode: mode})

	search := SearchHandler{Svc: svc, Mode: mode}
	mux.Handle("GET /api/search_articles", search)
	mux.Handle("POST /api/search_articles", search)
}
