package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages the document set.
type DocumentService struct {
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore, vectorIndex driven.VectorIndex) *DocumentService {
	return &DocumentService{
		docStore:    docStore,
		vectorIndex: vectorIndex,
	}
}

// List returns all documents, newest upload first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty document ID", domain.ErrInvalidInput)
	}
	return s.docStore.GetDocument(ctx, id)
}

// DeleteAll removes every document, its chunks and its vector index
// entries. The interaction ledger is untouched: history survives a
// document purge.
func (s *DocumentService) DeleteAll(ctx context.Context) ([]domain.Document, error) {
	logger.Section("Delete All Documents")

	deleted, err := s.docStore.DeleteAllDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("deleting documents: %w", err)
	}

	for _, doc := range deleted {
		if err := s.vectorIndex.DeleteDocument(ctx, doc.ID); err != nil {
			return deleted, fmt.Errorf("purging index for document %s: %w", doc.ID, err)
		}
	}

	logger.Info("Deleted %d documents", len(deleted))
	return deleted, nil
}
