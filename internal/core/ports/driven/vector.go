package driven

import (
	"context"

	"github.com/finsight-labs/finrag/internal/core/domain"
)

// IndexEntry pairs a chunk id with its vector and the metadata used for
// filtered search. Entries are owned exclusively by the index.
type IndexEntry struct {
	ChunkID string
	Vector  []float32
	Bank    string
	Year    int
}

// VectorIndex provides similarity search over index entries.
//
// Insert is idempotent on chunk id: re-inserting an id replaces the prior
// entry. Writes must be serialised by the caller or the implementation;
// the read path is safe for unlimited concurrent readers as long as
// mutation is excluded.
type VectorIndex interface {
	// Insert adds or replaces the entry for its chunk id. A vector whose
	// length differs from the configured dimension fails with
	// domain.ErrDimensionMismatch.
	Insert(ctx context.Context, entry IndexEntry) error

	// Delete removes an entry from the index.
	Delete(ctx context.Context, chunkID string) error

	// Search returns up to k entries matching the filter, most similar
	// first. The filter is applied before scoring so filtered-out entries
	// never consume top-k slots. Equal scores are ordered by chunk id
	// ascending. Fewer than k eligible entries is not an error.
	Search(ctx context.Context, query []float32, filter domain.Filter, k int) ([]VectorHit, error)

	// Len returns the number of entries in the index.
	Len() int

	// Fingerprint returns the embedder fingerprint the index was built
	// with, or "" for an empty index.
	Fingerprint() string

	// SetFingerprint records the embedder fingerprint at build time.
	SetFingerprint(fp string)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the cosine similarity (0-1 for normalised inputs).
	Score float64
}
