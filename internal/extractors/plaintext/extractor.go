// Package plaintext extracts text from plain-text blobs.
package plaintext

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles text/plain and markdown blobs.
type Extractor struct{}

// New creates a plaintext extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/plain", "text/markdown"}
}

// Extract returns the blob content as text. Invalid UTF-8 is rejected
// rather than silently mangled.
func (e *Extractor) Extract(_ context.Context, blob []byte) (string, error) {
	if len(blob) == 0 {
		return "", fmt.Errorf("%w: empty blob", domain.ErrInvalidInput)
	}

	if !utf8.Valid(blob) {
		return "", fmt.Errorf("%w: not valid UTF-8", domain.ErrExtraction)
	}

	// Normalise line endings so chunk boundaries are platform independent
	text := strings.ReplaceAll(string(blob), "\r\n", "\n")
	return text, nil
}
