package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/finsight-labs/finrag/internal/core/domain"
	"github.com/finsight-labs/finrag/internal/core/ports/driven"
	"github.com/finsight-labs/finrag/internal/core/ports/driving"
	"github.com/finsight-labs/finrag/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.Retriever = (*RetrieverService)(nil)

// RetrieverService answers similarity queries against the built index.
type RetrieverService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	store    driven.ChunkStore
}

// NewRetrieverService creates a new retriever.
func NewRetrieverService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	store driven.ChunkStore,
) *RetrieverService {
	return &RetrieverService{
		embedder: embedder,
		index:    index,
		store:    store,
	}
}

// Query embeds the question and returns the top-k most relevant chunks,
// most relevant first. The filter restricts candidates before scoring.
func (s *RetrieverService) Query(ctx context.Context, text string, filter domain.Filter, k int) ([]domain.ScoredChunk, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}

	// Queries must be embedded with the same function the index was
	// built with, or similarity scores are meaningless.
	if built := s.index.Fingerprint(); built != "" && built != s.embedder.Fingerprint() {
		return nil, fmt.Errorf("%w: index built with %q, query embedder is %q",
			domain.ErrEmbedderMismatch, built, s.embedder.Fingerprint())
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.index.Search(ctx, vector, filter, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]domain.ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.store.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Index and store drifted; drop the hit rather than
				// failing the whole query.
				logger.Warn("Indexed chunk %s missing from store", hit.ChunkID)
				continue
			}
			return nil, fmt.Errorf("load chunk %s: %w", hit.ChunkID, err)
		}
		results = append(results, domain.ScoredChunk{
			Chunk: *chunk,
			Score: hit.Score,
		})
	}

	logger.Debug("Query returned %d of %d requested chunk(s)", len(results), k)
	return results, nil
}
