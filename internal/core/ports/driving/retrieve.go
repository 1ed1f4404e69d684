package driving

import (
	"context"

	"github.com/finsight-labs/finrag/internal/core/domain"
)

// Retriever answers similarity queries against the built index.
type Retriever interface {
	// Query embeds the question with the same embedding function used at
	// index time and returns the top-k most relevant chunks with scores,
	// most relevant first. The optional filter restricts results to
	// matching bank/year tags before scoring. Returning fewer than k
	// results only means the filtered index had fewer eligible entries.
	Query(ctx context.Context, text string, filter domain.Filter, k int) ([]domain.ScoredChunk, error)
}
