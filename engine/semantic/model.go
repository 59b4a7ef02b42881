// Package semantic owns the Qdrant-backed vector index over the
// knowledge base of common vehicle problems. The assistant consults it
// for queries the rule table cannot answer.
package semantic

// Article is a knowledge-base entry describing a common problem.
type Article struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	System  string `json:"system"` // engine, brakes, electrical, ...
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}

// ArticleRecord pairs an article with its embedding for indexing.
type ArticleRecord struct {
	Article   Article
	Embedding []float32
}

// SearchResult is a single similarity hit against the knowledge base.
type SearchResult struct {
	ID      string  `json:"id"`
	Score   float32 `json:"score"`
	Title   string  `json:"title"`
	System  string  `json:"system"`
	Content string  `json:"content"`
	Source  string  `json:"source,omitempty"`
}
