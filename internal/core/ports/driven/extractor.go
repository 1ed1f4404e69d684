package driven

import (
	"github.com/finsight-labs/finrag/internal/core/domain"
)

// TableExtractor reconstructs tabular structures from a page's layout.
// Detection is deterministic for a given page: no randomised tie-breaks.
type TableExtractor interface {
	// Extract returns the tables detected on the page plus the remaining
	// non-tabular text, one string per narrative block. Regions whose
	// structure cannot be resolved by padding are reported via
	// domain.ErrExtraction by the implementation and fall back to
	// narrative passthrough, so Extract itself only fails on invalid input.
	Extract(doc *domain.Document, page domain.Page) ([]domain.Table, []string, error)
}
