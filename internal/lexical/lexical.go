// Package lexical provides the text heuristics used by the selection
// engine: pairwise content similarity and coarse topic labeling. Both are
// deliberately simple lexical strategies — no embeddings, no NLP — exposed
// behind single-method interfaces so a future implementation can be swapped
// in without touching the admission-control algorithm.
package lexical

// Similarity computes a [0,1] similarity score between two text fragments.
// Implementations must be pure: identical inputs always produce identical
// scores, with no dependency on call order.
type Similarity interface {
	Compare(a, b string) float64
}

// TopicExtractor assigns a coarse topic label to a text fragment.
// Implementations must be pure.
type TopicExtractor interface {
	Topic(content string) string
}
