package driven

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite for durable storage; an in-memory implementation
// backs the tests.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SetStatus updates a document's ingestion status. The reason is
	// recorded for failed documents and cleared otherwise.
	// Returns domain.ErrNotFound if the document does not exist.
	SetStatus(ctx context.Context, id string, status domain.DocumentStatus, reason string) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents, newest upload first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteAllDocuments removes every document and its chunks,
	// returning the documents that were deleted so callers can purge
	// the vector index.
	DeleteAllDocuments(ctx context.Context) ([]domain.Document, error)

	// SaveChunks stores chunks for a document, replacing any previous
	// chunk with the same ID.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunks retrieves all chunks for a document, ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)
}
