package vector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dd0wney/cluso-kgrag/pkg/rag"
)

// Entry is one indexed passage.
type Entry struct {
	ID        string
	Text      string
	Embedding []float32
	Metadata  map[string]string
}

// Index is an exact-scan cosine similarity index with metadata filtering.
// Suitable for the bundled demos and tests; production deployments plug a
// real ANN backend into the rag.Searcher contract instead.
type Index struct {
	mu      sync.RWMutex
	entries []Entry
	dims    int
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Add indexes an entry. The first entry fixes the index dimensionality.
func (idx *Index) Add(entry Entry) error {
	if entry.ID == "" {
		return fmt.Errorf("vector index: entry id must not be empty")
	}
	if len(entry.Embedding) == 0 {
		return fmt.Errorf("vector index: entry %q has no embedding", entry.ID)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.dims == 0 {
		idx.dims = len(entry.Embedding)
	} else if len(entry.Embedding) != idx.dims {
		return fmt.Errorf("vector index: entry %q: %w: %d != %d",
			entry.ID, ErrDimensionMismatch, len(entry.Embedding), idx.dims)
	}

	idx.entries = append(idx.entries, entry)
	return nil
}

// Len returns the number of indexed entries.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Search returns the top k entries by cosine similarity to the query vector,
// restricted to entries whose metadata contains every key/value pair of the
// filter. Ties keep insertion order.
func (idx *Index) Search(ctx context.Context, query []float32, filter map[string]string, k int) ([]rag.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	hits := make([]rag.VectorHit, 0)
	for _, entry := range idx.entries {
		if !matchMetadata(entry.Metadata, filter) {
			continue
		}
		score, err := CosineSimilarity(query, entry.Embedding)
		if err != nil {
			return nil, fmt.Errorf("vector index: entry %q: %w", entry.ID, err)
		}
		hits = append(hits, rag.VectorHit{
			ID:       entry.ID,
			Text:     entry.Text,
			Score:    score,
			Metadata: entry.Metadata,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// matchMetadata reports whether metadata contains every filter pair.
func matchMetadata(metadata, filter map[string]string) bool {
	for key, want := range filter {
		if metadata[key] != want {
			return false
		}
	}
	return true
}

// Embedder turns free text into an embedding. Implementations live outside
// the core (a model client, a hash projection for tests).
type Embedder func(text string) ([]float32, error)

// SearchAdapter binds an Index and an Embedder to the rag.Searcher contract.
type SearchAdapter struct {
	Index *Index
	Embed Embedder
}

// Search implements rag.Searcher.
func (a *SearchAdapter) Search(ctx context.Context, text string, filter map[string]string, k int) ([]rag.VectorHit, error) {
	query, err := a.Embed(text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return a.Index.Search(ctx, query, filter, k)
}
