package driven

import (
	"context"

	"github.com/finsight-labs/finrag/internal/core/domain"
)

// PageContent is the tagged input to the chunking pipeline: one page's
// narrative blocks and reconstructed tables.
type PageContent struct {
	Document  *domain.Document
	Page      int
	Narrative []string
	Tables    []domain.Table
}

// Chunker converts page content into bounded-size chunks.
// Chunkers are chained in a pipeline; each appends its chunks.
type Chunker interface {
	// Name returns the chunker name for logging and configuration.
	Name() string

	// Chunk appends chunks derived from the page content.
	// Chunking is deterministic: the same content and configuration
	// always yield the same chunk sequence and ids.
	Chunk(ctx context.Context, content PageContent, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// ChunkerPipeline chains multiple Chunkers over one page.
type ChunkerPipeline interface {
	// Chunk runs the page content through all chunkers in order and
	// returns the final chunk sequence.
	Chunk(ctx context.Context, content PageContent) ([]domain.Chunk, error)
}
