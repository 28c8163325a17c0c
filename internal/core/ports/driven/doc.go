// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ExtractorRegistry: Selects a text extractor for a document type
//   - DocumentStore: Document and chunk persistence
//   - InteractionStore: The append-mostly interaction ledger
//   - ConversationStore: Conversation thread persistence
//   - VectorIndex: Chunk embedding storage and similarity search
//   - BlobStore: Opaque content-addressable blob storage
//   - ConfigStore: Application configuration
//
// # Capability Interfaces
//
// The retrieval core depends on these contracts, never on a concrete
// provider:
//
//   - EmbeddingService: Generates fixed-dimension vector embeddings
//   - GenerationService: Produces grounded answers from prompts
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
