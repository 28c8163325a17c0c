package domain

import (
	"fmt"
	"time"
)

// DocumentStatus tracks a document through the ingestion pipeline.
type DocumentStatus string

// Document ingestion states.
const (
	// DocumentStatusPending means the document is uploaded but not yet indexed.
	DocumentStatusPending DocumentStatus = "pending"

	// DocumentStatusIndexed means extraction, chunking and embedding succeeded.
	DocumentStatusIndexed DocumentStatus = "indexed"

	// DocumentStatusFailed means ingestion failed; FailureReason records why.
	DocumentStatusFailed DocumentStatus = "failed"
)

// Document represents an uploaded document and its ingestion state.
// A Document is immutable after creation except for its status.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Name is the display name, typically the uploaded filename.
	Name string

	// MIMEType is the declared content type of the uploaded blob.
	MIMEType string

	// BlobRef is the content-addressable reference into the blob store.
	BlobRef string

	// Status is the ingestion state (pending/indexed/failed).
	Status DocumentStatus

	// FailureReason records why ingestion failed. Empty unless Status is failed.
	FailureReason string

	// UploadedAt is when the document was uploaded.
	UploadedAt time.Time
}

// Chunk represents a retrieval unit within a document.
// Chunk IDs are deterministic so that re-ingesting a document replaces
// its chunks instead of duplicating them. The embedding vector is owned
// by the vector index, keyed by chunk ID; a Chunk never carries it.
type Chunk struct {
	// ID is the unique identifier, derived from document and position.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Position is the ordinal position within the document.
	Position int

	// Content is the text span of this chunk.
	Content string

	// Length is the content length in runes.
	Length int
}

// ChunkID derives the deterministic chunk identifier for a document position.
func ChunkID(documentID string, position int) string {
	return fmt.Sprintf("%s:%04d", documentID, position)
}
