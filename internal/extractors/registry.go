// Package extractors provides text extraction from uploaded document blobs.
//
// Each extractor handles specific MIME types. The registry selects the
// extractor for a document's declared type; unknown types are rejected
// with domain.ErrUnsupportedFormat before any pipeline work is done.
package extractors

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/extractors/pdf"
	"github.com/custodia-labs/askdocs-cli/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps MIME types to extractors.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]driven.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string]driven.Extractor),
	}
}

// Defaults creates a registry with the built-in extractors registered.
func Defaults() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(plaintext.New())
	return r
}

// Register adds an extractor for each MIME type it supports.
// A later registration for the same MIME type replaces the earlier one.
func (r *Registry) Register(e driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mimeType := range e.SupportedMIMETypes() {
		r.extractors[mimeType] = e
	}
}

// ForMIMEType returns the extractor for the given MIME type.
func (r *Registry) ForMIMEType(mimeType string) (driven.Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.extractors[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, mimeType)
	}
	return e, nil
}
