package guard

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// referenceCache holds the embedded reference phrases, keyed by label.
// It is populated exactly once per process, from a single batched
// embedding call covering every label, and is immutable afterwards.
// Concurrent first callers wait on the same population attempt.
type referenceCache struct {
	once    sync.Once
	vectors map[string][][]float32
	err     error
}

// get returns the reference vectors for label, populating the cache on
// first use. A failed population is not retried; the error is returned
// to every caller so the fail policy can resolve it.
func (rc *referenceCache) get(ctx context.Context, embedder Embedder, phrases map[string][]string, label string) ([][]float32, error) {
	rc.once.Do(func() {
		rc.populate(ctx, embedder, phrases)
	})
	if rc.err != nil {
		return nil, rc.err
	}
	return rc.vectors[label], nil
}

func (rc *referenceCache) populate(ctx context.Context, embedder Embedder, phrases map[string][]string) {
	labels := make([]string, 0, len(phrases))
	for label := range phrases {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var texts []string
	for _, label := range labels {
		texts = append(texts, phrases[label]...)
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		rc.err = fmt.Errorf("failed to embed reference phrases: %w", err)
		return
	}
	if len(vectors) != len(texts) {
		rc.err = fmt.Errorf("embedding provider returned %d vectors for %d phrases", len(vectors), len(texts))
		return
	}

	rc.vectors = make(map[string][][]float32, len(labels))
	i := 0
	for _, label := range labels {
		n := len(phrases[label])
		rc.vectors[label] = vectors[i : i+n]
		i += n
	}
}
