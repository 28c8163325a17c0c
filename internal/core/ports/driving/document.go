package driving

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// DocumentService manages the document set.
type DocumentService interface {
	// List returns all documents, newest upload first.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// DeleteAll removes every document, its chunks and its vector index
	// entries, returning the deleted documents.
	DeleteAll(ctx context.Context) ([]domain.Document, error)
}
