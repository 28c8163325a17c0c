package driving

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// Upload is one document handed to the ingestion pipeline.
type Upload struct {
	// Name is the display name, typically the uploaded filename.
	Name string

	// MIMEType is the declared content type.
	MIMEType string

	// Data is the raw blob.
	Data []byte
}

// UploadFailure reports one document that could not be ingested.
type UploadFailure struct {
	// Name is the display name of the failed upload.
	Name string

	// Reason is a human-readable failure reason.
	Reason string
}

// BatchResult is the outcome of a batch ingestion.
// Failures are isolated per document; one bad file never fails the batch.
type BatchResult struct {
	// Ingested lists documents that reached status indexed.
	Ingested []domain.Document

	// Failed lists documents that could not be ingested.
	Failed []UploadFailure
}

// IngestionService ingests uploaded documents into the retrieval index.
type IngestionService interface {
	// Ingest processes a single upload: extract, chunk, embed, index.
	// On failure the document record is kept with status failed and the
	// error is returned.
	Ingest(ctx context.Context, upload Upload) (*domain.Document, error)

	// IngestBatch processes uploads independently and reports per-document
	// outcomes.
	IngestBatch(ctx context.Context, uploads []Upload) (*BatchResult, error)
}
