// Package chunker splits extracted document text into overlapping,
// bounded-size chunks with stable ordering.
//
// Chunk boundaries are deterministic: the same text and parameters always
// produce the same chunks, which makes re-ingestion idempotent and tests
// reproducible. Concatenating the non-overlapping portion of each chunk
// reconstructs the original text exactly.
package chunker

import (
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping runes between
// consecutive chunks.
const DefaultOverlap = 200

// Chunker splits document content into fixed-size overlapping chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in runes.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave the window moving forward
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured chunk size in runes.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap in runes.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split divides text into ordered chunks for the given document.
// Chunk IDs derive from the document ID and position, so re-splitting the
// same document replaces its chunks rather than duplicating them.
//
// Empty text produces no chunks; text shorter than one chunk produces
// exactly one.
func (c *Chunker) Split(documentID, text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	// Work in runes so multi-byte characters never straddle a boundary.
	runes := []rune(text)
	total := len(runes)
	step := c.chunkSize - c.overlap

	chunks := make([]domain.Chunk, 0, total/step+1)

	position := 0
	for start := 0; start < total; start += step {
		end := start + c.chunkSize
		if end > total {
			end = total
		}

		content := string(runes[start:end])
		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(documentID, position),
			DocumentID: documentID,
			Position:   position,
			Content:    content,
			Length:     end - start,
		})
		position++

		if end == total {
			break
		}
	}

	return chunks
}
