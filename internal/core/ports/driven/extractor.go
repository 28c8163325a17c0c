package driven

import "context"

// Extractor turns a raw document blob into linear UTF-8 text,
// preserving reading order best-effort.
type Extractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Extract returns the text content of the blob.
	// Returns an error wrapping domain.ErrExtraction when parsing fails
	// (corrupt or encrypted file).
	Extract(ctx context.Context, blob []byte) (string, error)
}

// ExtractorRegistry selects an extractor for a declared MIME type.
type ExtractorRegistry interface {
	// ForMIMEType returns the extractor for the given MIME type.
	// Returns an error wrapping domain.ErrUnsupportedFormat when no
	// extractor handles the type.
	ForMIMEType(mimeType string) (Extractor, error)
}
