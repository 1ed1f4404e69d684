package driving

import (
	"context"

	"github.com/finsight-labs/finrag/internal/core/domain"
)

// Answer is a generated answer plus the chunks that grounded it.
type Answer struct {
	Text    string
	Sources []domain.ScoredChunk
}

// Answerer retrieves grounding chunks for a question and delegates
// answer generation to the external language model.
type Answerer interface {
	// Ask retrieves the top-k chunks for the question (optionally
	// filtered) and generates an answer conditioned on them.
	Ask(ctx context.Context, question string, filter domain.Filter, k int) (*Answer, error)
}
