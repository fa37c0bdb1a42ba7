package pathutil

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/api/get_all_articles", "/api/get_all_articles"},
		{"/api/search_articles?sort=asc", "/api/search_articles"},
		{"/api/tag_article/", "/api/tag_article"},
		{"/metrics", "/metrics"},
		{"/health", "/health"},
		{"/api/articles/123", Unmatched},
		{"/wp-login.php", Unmatched},
		{"", Unmatched},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := NormalizePath(tt.path); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestExpectedCardinality(t *testing.T) {
	if got := ExpectedCardinality(); got != 9 {
		t.Errorf("ExpectedCardinality() = %d, want 9", got)
	}
}
