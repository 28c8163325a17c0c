package driven

import "context"

// BlobStore is opaque content-addressable storage for uploaded documents.
// The core treats references as opaque strings; storing identical bytes
// twice yields the same reference.
type BlobStore interface {
	// Store writes the blob and returns its content-addressable reference.
	Store(ctx context.Context, data []byte) (string, error)

	// Fetch reads the blob for a reference.
	// Returns domain.ErrNotFound if the reference is unknown.
	Fetch(ctx context.Context, ref string) ([]byte, error)
}
