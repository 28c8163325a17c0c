package domain

// CitedDocument identifies a document the answer was grounded on.
type CitedDocument struct {
	// ID is the document identifier.
	ID string

	// Name is the document display name.
	Name string
}

// Answer is the result of one question through the answer pipeline.
type Answer struct {
	// Text is the generated answer.
	Text string

	// CitedDocuments lists the documents actually used as grounding,
	// in retrieval order. Always a subset of the documents supplied
	// as context.
	CitedDocuments []CitedDocument

	// InteractionID references the ledger entry recorded for this answer.
	InteractionID string

	// ConversationID is the thread this answer belongs to.
	ConversationID string

	// LatencyMS is the wall-clock latency in milliseconds.
	LatencyMS int64

	// Grounded is false when no retrieved chunk survived the similarity
	// threshold and the answer was produced without document context.
	Grounded bool
}

// RetrievedChunk is a chunk selected as grounding for a question,
// hydrated with its document name for prompt assembly and citation.
type RetrievedChunk struct {
	// Chunk is the retrieval unit.
	Chunk Chunk

	// DocumentName is the display name of the owning document.
	DocumentName string

	// Similarity is the cosine similarity to the question vector (0-1).
	Similarity float64
}
