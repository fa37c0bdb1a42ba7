// Package pathutil maps request paths onto a fixed set of metric labels.
package pathutil

import "strings"

// Unmatched is the label for every path the service does not route.
const Unmatched = "/other"

// knownPaths are the routes served by the API.
var knownPaths = map[string]struct{}{
	"/":                     {},
	"/api/get_all_articles": {},
	"/api/search_articles":  {},
	"/api/tag_article":      {},
	"/health":               {},
	"/ready":                {},
	"/live":                 {},
	"/metrics":              {},
}

// NormalizePath returns the route label for path. Query strings and a
// trailing slash are ignored. Unknown paths collapse to Unmatched so that
// scanners probing random URLs cannot blow up label cardinality.
//
//	NormalizePath("/api/tag_article/")   // "/api/tag_article"
//	NormalizePath("/wp-login.php")       // "/other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return Unmatched
}

// ExpectedCardinality is the number of distinct labels NormalizePath can return.
func ExpectedCardinality() int {
	return len(knownPaths) + 1
}
