package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"article-tagger/internal/domain/entity"
	"article-tagger/internal/handler/http/pathutil"
	"article-tagger/internal/handler/http/respond"
	"article-tagger/internal/observability/slo"
)

func TestMetricsMiddleware_PathNormalization(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/api/get_all_articles", "/api/get_all_articles"},
		{"/api/search_articles?x=1", "/api/search_articles"},
		{"/admin/../etc/passwd", pathutil.Unmatched},
	}

	handler := MetricsMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			counter := httpRequestsTotal.WithLabelValues(http.MethodGet, tt.expected, "200")
			before := testutil.ToFloat64(counter)

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestMetricsMiddleware_StatusCodes(t *testing.T) {
	handler := MetricsMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	counter := httpRequestsTotal.WithLabelValues(http.MethodPost, "/api/tag_article", "500")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest(http.MethodPost, "/api/tag_article", strings.NewReader(`[]`))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestMetricsMiddleware_FeedsSLOTracker(t *testing.T) {
	tracker := slo.NewTracker()
	handler := MetricsMiddleware(tracker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/search_articles" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.Copy(w, bytes.NewBufferString("ok"))
	}))

	for _, path := range []string{"/", "/api/get_all_articles", "/api/search_articles", "/api/get_all_articles"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	snap := tracker.Flush()
	assert.Equal(t, 4, snap.Requests)
	assert.Equal(t, 1, snap.Errors)
	assert.InDelta(t, 0.25, snap.ErrorRate, 1e-9)
}

func TestMetricsMiddleware_RejectedInputIsNotAnSLOError(t *testing.T) {
	tracker := slo.NewTracker()
	handler := MetricsMiddleware(tracker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/search_articles":
			respond.Failure(w, r, respond.Production, "Unable to perform search!",
				&entity.ValidationError{Field: "entity", Message: "entity kind must not be empty"})
		case "/api/tag_articles":
			respond.Failure(w, r, respond.Production, "Unable to tag articles!",
				&entity.StorageError{Op: "insert_tags", Err: errors.New("connection refused")})
		default:
			_, _ = io.Copy(w, bytes.NewBufferString("ok"))
		}
	}))

	var codes []int
	for _, path := range []string{"/api/search_articles", "/api/tag_articles", "/api/get_all_articles"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusInternalServerError, http.StatusInternalServerError, http.StatusOK}, codes)
	snap := tracker.Flush()
	assert.Equal(t, 3, snap.Requests)
	assert.Equal(t, 1, snap.Errors)
}

func TestMetricsMiddleware_InFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	handler := MetricsMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
	}))

	before := testutil.ToFloat64(httpRequestsInFlight)
	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		close(done)
	}()

	<-started
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsInFlight))
	close(release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not finish")
	}
	assert.Equal(t, before, testutil.ToFloat64(httpRequestsInFlight))
}

func TestMetricsHandler(t *testing.T) {
	// Touch a vector so it is exported.
	httpRequestsTotal.WithLabelValues(http.MethodGet, "/", "200").Inc()

	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
