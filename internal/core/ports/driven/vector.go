package driven

import "context"

// VectorEntry is one indexed chunk embedding. DocumentID and Position are
// denormalised so the index can filter by document and order ties without
// consulting the document store.
type VectorEntry struct {
	// ChunkID is the chunk identity the embedding belongs to.
	ChunkID string

	// DocumentID is the owning document.
	DocumentID string

	// Position is the chunk's sequence index within its document.
	Position int

	// Embedding is the vector representation.
	Embedding []float32
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocumentID is the matched chunk's owning document.
	DocumentID string

	// Position is the chunk's sequence index within its document.
	Position int

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}

// VectorIndex stores chunk embeddings and performs k-nearest-neighbour
// similarity search.
//
// Contract:
//   - Upsert is idempotent per ChunkID: re-upserting replaces the vector
//     and never creates a duplicate entry.
//   - Search orders results by similarity descending; ties break on the
//     lowest Position, then on DocumentID. The ordering is deterministic.
//   - DeleteDocument is atomic with respect to concurrent searches: a
//     search sees either all of a document's chunks or none of them.
//
// The persistent implementation survives process restarts. The in-memory
// implementation used for tests honours the same contract.
type VectorIndex interface {
	// Upsert inserts or replaces embeddings for the given entries.
	Upsert(ctx context.Context, entries []VectorEntry) error

	// Search finds the k nearest neighbours to the query vector.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// DeleteDocument removes every entry belonging to the document.
	DeleteDocument(ctx context.Context, documentID string) error

	// Count returns the total number of entries in the index.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
