package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid caller input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates the declared document type has no extractor.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtraction indicates text extraction failed (corrupt or encrypted file).
	ErrExtraction = errors.New("extraction failed")

	// ErrEmbeddingService indicates the embedding capability failed after
	// retries were exhausted. Retried at the adapter boundary only.
	ErrEmbeddingService = errors.New("embedding service failed")

	// ErrGenerationService indicates the generation capability failed after
	// retries were exhausted. Retried at the adapter boundary only.
	ErrGenerationService = errors.New("generation service failed")

	// ErrAnswerGeneration is the single terminal failure surfaced by the
	// answer pipeline. It wraps the underlying embedding or generation error.
	ErrAnswerGeneration = errors.New("answer generation failed")

	// ErrIndexConsistency indicates the vector index and chunk store
	// disagree. This signals a bug and is never retried.
	ErrIndexConsistency = errors.New("index consistency violation")

	// ErrEmbeddingUnavailable indicates no embedding service is configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates no generation service is configured.
	ErrGenerationUnavailable = errors.New("generation service unavailable")
)
