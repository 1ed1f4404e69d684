package domain

// Filter constrains retrieval to chunks with matching provenance tags.
// Zero-value fields are unconstrained.
type Filter struct {
	// Bank matches the Bank tag exactly when non-empty.
	Bank string

	// Year matches the Year tag exactly when non-zero.
	Year int
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	return f.Bank == "" && f.Year == 0
}

// Matches reports whether the chunk satisfies the filter.
func (f Filter) Matches(c Chunk) bool {
	if f.Bank != "" && c.Bank != f.Bank {
		return false
	}
	if f.Year != 0 && c.Year != f.Year {
		return false
	}
	return true
}

// ScoredChunk pairs a chunk with its relevance score for one query.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}
