// Package article provides the read-side use cases over articles: listing
// every headline and the multi-criteria search, which resolves criteria into
// article ids and assembles one denormalized record per article.
package article

// Operation names attached to storage failures raised by this package.
const (
	OpListArticles = "list articles"
	OpResolve      = "resolve criteria"
	OpAssemble     = "assemble records"
)
