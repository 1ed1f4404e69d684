// Package memory provides in-memory storage adapters, used in tests
// and for ephemeral runs where durability is not needed.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/finsight-labs/finrag/internal/core/domain"
	"github.com/finsight-labs/finrag/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
type ChunkStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string]map[string]domain.Chunk // document id -> chunk id -> chunk
	meta      map[string]string
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string]map[string]domain.Chunk),
		meta:      make(map[string]string),
	}
}

// SaveDocument stores or updates a document.
func (s *ChunkStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// SaveChunks stores chunks, replacing any prior chunk with the same id.
func (s *ChunkStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		byID, ok := s.chunks[chunk.DocumentID]
		if !ok {
			byID = make(map[string]domain.Chunk)
			s.chunks[chunk.DocumentID] = byID
		}
		byID[chunk.ID] = chunk
	}
	return nil
}

// GetChunk retrieves a specific chunk by id.
func (s *ChunkStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, byID := range s.chunks {
		if chunk, ok := byID[id]; ok {
			return &chunk, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetChunks retrieves all chunks for a document, in position order.
func (s *ChunkStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byID, ok := s.chunks[documentID]
	if !ok {
		return nil, nil
	}
	chunks := make([]domain.Chunk, 0, len(byID))
	for _, chunk := range byID {
		chunks = append(chunks, chunk)
	}
	sort.Slice(chunks, func(i, j int) bool {
		if chunks[i].Position != chunks[j].Position {
			return chunks[i].Position < chunks[j].Position
		}
		return chunks[i].ID < chunks[j].ID
	})
	return chunks, nil
}

// ListDocuments returns all stored documents.
func (s *ChunkStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.documents))
	for id := range s.documents {
		docs = append(docs, s.documents[id])
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// DeleteDocument removes a document and its chunks.
func (s *ChunkStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}

// GetMeta retrieves a key-value setting.
func (s *ChunkStore) GetMeta(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.meta[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return value, nil
}

// SetMeta stores a key-value setting.
func (s *ChunkStore) SetMeta(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta[key] = value
	return nil
}

// Close releases resources.
func (s *ChunkStore) Close() error {
	return nil
}
