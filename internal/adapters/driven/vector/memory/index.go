// Package memory provides an in-memory vector index for tests and
// ephemeral use. It honours the same ordering and atomicity contract as
// the persistent index.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.VectorIndex.
type Index struct {
	mu      sync.RWMutex
	entries map[string]driven.VectorEntry
}

// NewIndex creates a new in-memory vector index.
func NewIndex() *Index {
	return &Index{
		entries: make(map[string]driven.VectorEntry),
	}
}

// Upsert inserts or replaces embeddings for the given entries.
func (idx *Index) Upsert(_ context.Context, entries []driven.VectorEntry) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, entry := range entries {
		if len(entry.Embedding) == 0 {
			return fmt.Errorf("%w: empty embedding for chunk %s", domain.ErrInvalidInput, entry.ChunkID)
		}
		idx.entries[entry.ChunkID] = entry
	}
	return nil
}

// Search finds the k nearest neighbours to the query vector.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var hits []driven.VectorHit
	for _, entry := range idx.entries {
		if len(entry.Embedding) != len(query) {
			return nil, fmt.Errorf("%w: chunk %s has dimension %d, query has %d",
				domain.ErrIndexConsistency, entry.ChunkID, len(entry.Embedding), len(query))
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    entry.ChunkID,
			DocumentID: entry.DocumentID,
			Position:   entry.Position,
			Similarity: cosineSimilarity(query, entry.Embedding),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		if hits[i].Position != hits[j].Position {
			return hits[i].Position < hits[j].Position
		}
		return hits[i].DocumentID < hits[j].DocumentID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// DeleteDocument removes every entry belonging to the document.
func (idx *Index) DeleteDocument(_ context.Context, documentID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for chunkID, entry := range idx.entries {
		if entry.DocumentID == documentID {
			delete(idx.entries, chunkID)
		}
	}
	return nil
}

// Count returns the total number of entries in the index.
func (idx *Index) Count(_ context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries), nil
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// cosineSimilarity computes the cosine similarity between two vectors
// of equal length. Returns 0 for zero-magnitude vectors.
func cosineSimilarity(a, b []float32) float64 {
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
