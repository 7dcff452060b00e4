// Package guard decides whether an incoming question is admitted to the
// rest of the bot: an injection check followed by a topic check, each a
// regex pre-filter backed by embedding similarity against reference
// phrases.
package guard

import (
	"context"
	"fmt"
	"math"
)

// Embedder turns texts into vectors, one per input in the same order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// FailPolicy resolves a classification whose embedding call failed.
// The choice is explicit at every call site.
type FailPolicy int

const (
	// FailOpen treats a failed check as matching the label.
	FailOpen FailPolicy = iota
	// FailClosed treats a failed check as not matching the label.
	FailClosed
)

// Classifier combines the regex pre-filters with embedding similarity
// against the reference phrase cache.
type Classifier struct {
	embedder Embedder
	phrases  map[string][]string
	refs     referenceCache
	debug    bool
}

// NewClassifier builds a classifier over the given embedding provider.
// pack may be nil; when set its phrases extend the built-in references.
func NewClassifier(embedder Embedder, pack PhrasePack, debug bool) *Classifier {
	return &Classifier{
		embedder: embedder,
		phrases:  mergePhrases(pack),
		debug:    debug,
	}
}

// Query is one incoming text with a memoized embedding: consecutive
// label checks against the same text share a single embedding call. Not
// safe for concurrent use; a query lives for one admission check.
type Query struct {
	classifier *Classifier
	text       string
	embedded   bool
	vector     []float32
	err        error
}

// Query starts a classification pass over text.
func (c *Classifier) Query(text string) *Query {
	return &Query{classifier: c, text: text}
}

// Classify reports whether the query text matches label. The regex
// pre-filter is consulted first and short-circuits without an embedding
// call; otherwise the memoized query vector is compared against the
// label's reference vectors, matching when any similarity reaches
// threshold. Any embedding failure is resolved by policy, never retried.
func (q *Query) Classify(ctx context.Context, label string, threshold float64, policy FailPolicy) bool {
	c := q.classifier
	if MatchesPatterns(q.text, label) {
		return true
	}

	refs, err := c.refs.get(ctx, c.embedder, c.phrases, label)
	if err != nil {
		return c.resolve(label, policy, err)
	}

	vector, err := q.embedOnce(ctx)
	if err != nil {
		return c.resolve(label, policy, err)
	}

	best := 0.0
	for _, ref := range refs {
		if sim := cosineSimilarity(vector, ref); sim > best {
			best = sim
		}
	}
	if c.debug {
		fmt.Printf("[guard] label=%s best_similarity=%.3f threshold=%.3f\n", label, best, threshold)
	}
	return best >= threshold
}

// embedOnce embeds the query text on first use. Failures are memoized
// too, so later checks resolve the same error through their own fail
// policy instead of retrying the provider.
func (q *Query) embedOnce(ctx context.Context) ([]float32, error) {
	if q.embedded {
		return q.vector, q.err
	}
	q.embedded = true

	vectors, err := q.classifier.embedder.Embed(ctx, []string{q.text})
	switch {
	case err != nil:
		q.err = err
	case len(vectors) != 1:
		q.err = fmt.Errorf("embedding provider returned %d vectors for one input", len(vectors))
	default:
		q.vector = vectors[0]
	}
	return q.vector, q.err
}

// Classify runs a one-off classification of text against label.
func (c *Classifier) Classify(ctx context.Context, text, label string, threshold float64, policy FailPolicy) bool {
	return c.Query(text).Classify(ctx, label, threshold, policy)
}

func (c *Classifier) resolve(label string, policy FailPolicy, err error) bool {
	if c.debug {
		fmt.Printf("[guard] classifier unavailable for label=%s (%v), applying fail policy\n", label, err)
	}
	return policy == FailOpen
}

// cosineSimilarity computes dot(a,b)/(||a||*||b||). Mismatched lengths or
// zero vectors yield 0 (no match) rather than an error.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
