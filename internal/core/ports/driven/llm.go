package driven

import (
	"context"

	"github.com/finsight-labs/finrag/internal/core/domain"
)

// LLMService generates natural-language answers grounded on retrieved
// chunks. This is an optional external collaborator - when nil, the
// pipeline still ingests and retrieves, but cannot answer.
type LLMService interface {
	// Generate produces an answer to the question conditioned on the
	// given context chunks.
	Generate(ctx context.Context, question string, context []domain.ScoredChunk) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
