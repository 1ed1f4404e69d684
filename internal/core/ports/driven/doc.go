// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for ingestion and retrieval to function:
//
//   - DocumentLoader: Reads a PDF into pages with layout hints
//   - TableExtractor: Reconstructs tables from page layout
//   - ChunkerPipeline: Splits page content into bounded chunks
//   - EmbeddingService: Generates vector embeddings
//   - VectorIndex: Stores and searches index entries
//   - ChunkStore: Chunk persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Answer generation. Without it, retrieval still works
//     and the ask command is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, loader, or extractor package
package driven
