// Package sqlite provides a persistent vector index backed by SQLite.
//
// Embeddings are stored as little-endian float32 blobs and searched by
// brute-force cosine similarity. The corpus is personal-scale, so a full
// scan beats the operational cost of an ANN index.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a SQLite-backed vector index.
type Index struct {
	db   *sql.DB
	path string
}

// NewIndex creates a vector index at the specified data directory.
// If dataDir is empty, defaults to ~/.askdocs/data/vectors.db.
func NewIndex(dataDir string) (*Index, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".askdocs", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vectors.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS vectors (
			chunk_id    TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			position    INTEGER NOT NULL,
			embedding   BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_vectors_document_id ON vectors(document_id);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vectors table: %w", err)
	}

	return &Index{db: db, path: dbPath}, nil
}

// Upsert inserts or replaces embeddings for the given entries.
func (idx *Index) Upsert(ctx context.Context, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (chunk_id, document_id, position, embedding)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			document_id = excluded.document_id,
			position = excluded.position,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if len(entry.Embedding) == 0 {
			return fmt.Errorf("%w: empty embedding for chunk %s", domain.ErrInvalidInput, entry.ChunkID)
		}
		if _, err := stmt.ExecContext(ctx, entry.ChunkID, entry.DocumentID,
			entry.Position, float32SliceToBytes(entry.Embedding)); err != nil {
			return fmt.Errorf("upserting vector: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search finds the k nearest neighbours to the query vector.
// Results order by similarity descending, then position, then document ID.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return nil, nil
	}

	rows, err := idx.db.QueryContext(ctx, `
		SELECT chunk_id, document_id, position, embedding FROM vectors
	`)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var hit driven.VectorHit
		var blob []byte
		if err := rows.Scan(&hit.ChunkID, &hit.DocumentID, &hit.Position, &blob); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}

		embedding := bytesToFloat32Slice(blob)
		if len(embedding) != len(query) {
			return nil, fmt.Errorf("%w: chunk %s has dimension %d, query has %d",
				domain.ErrIndexConsistency, hit.ChunkID, len(embedding), len(query))
		}

		hit.Similarity = cosineSimilarity(query, embedding)
		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
	}

	sortHits(hits)
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// DeleteDocument removes every entry belonging to the document.
func (idx *Index) DeleteDocument(ctx context.Context, documentID string) error {
	if _, err := idx.db.ExecContext(ctx,
		"DELETE FROM vectors WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("deleting document vectors: %w", err)
	}
	return nil
}

// Count returns the total number of entries in the index.
func (idx *Index) Count(ctx context.Context) (int, error) {
	var count int
	row := idx.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vectors")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting vectors: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Path returns the database file path.
func (idx *Index) Path() string {
	return idx.path
}

// sortHits orders hits by similarity descending, position, then document ID.
func sortHits(hits []driven.VectorHit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		if hits[i].Position != hits[j].Position {
			return hits[i].Position < hits[j].Position
		}
		return hits[i].DocumentID < hits[j].DocumentID
	})
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

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
