// Package chunkers provides the chunking pipeline that converts page
// content (narrative blocks and reconstructed tables) into bounded-size,
// metadata-preserving chunks ready for embedding.
package chunkers

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finsight-labs/finrag/internal/core/domain"
	"github.com/finsight-labs/finrag/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.ChunkerPipeline = (*Pipeline)(nil)

// chunkNamespace is the fixed UUID namespace for deterministic chunk ids.
var chunkNamespace = uuid.MustParse("9c7f2c3e-41d6-4a8a-b1fd-5be1cf3f2f0a")

// chunkID derives a stable chunk id from the chunk's provenance.
// The same document, page, kind and ordinal always yield the same id.
func chunkID(docID string, page int, kind domain.ChunkKind, ordinal int) string {
	name := fmt.Sprintf("%s/%d/%s/%d", docID, page, kind, ordinal)
	return uuid.NewSHA1(chunkNamespace, []byte(name)).String()
}

// Pipeline chains multiple Chunkers and runs them in order over one
// page's content. It implements the ChunkerPipeline interface.
type Pipeline struct {
	chunkers []driven.Chunker
}

// NewPipeline creates a new chunking pipeline with the given chunkers.
// Chunkers are executed in the order provided.
func NewPipeline(chunkers ...driven.Chunker) *Pipeline {
	return &Pipeline{
		chunkers: chunkers,
	}
}

// Chunk runs the page content through all chunkers in order.
// Each chunker appends its chunks to the running sequence.
func (p *Pipeline) Chunk(ctx context.Context, content driven.PageContent) ([]domain.Chunk, error) {
	if content.Document == nil {
		return nil, fmt.Errorf("page content has no document: %w", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk

	for _, c := range p.chunkers {
		var err error
		chunks, err = c.Chunk(ctx, content, chunks)
		if err != nil {
			return nil, fmt.Errorf("chunker %s: %w", c.Name(), err)
		}
	}

	return chunks, nil
}

// Add appends a chunker to the pipeline.
func (p *Pipeline) Add(c driven.Chunker) {
	p.chunkers = append(p.chunkers, c)
}

// Len returns the number of chunkers in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.chunkers)
}
