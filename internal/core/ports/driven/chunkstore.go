package driven

import (
	"context"

	"github.com/finsight-labs/finrag/internal/core/domain"
)

// ChunkStore persists documents and their chunks.
// Backed by SQLite for durable runs, memory for tests.
type ChunkStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks, replacing any prior chunk with the same id.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunk retrieves a chunk by id.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunks retrieves all chunks for a document, in position order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ListDocuments returns all stored documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// GetMeta retrieves a small key-value setting (e.g. the embedder
	// fingerprint the stored embeddings were built with). Absent keys
	// fail with domain.ErrNotFound.
	GetMeta(ctx context.Context, key string) (string, error)

	// SetMeta stores a small key-value setting.
	SetMeta(ctx context.Context, key, value string) error

	// Close releases resources.
	Close() error
}
