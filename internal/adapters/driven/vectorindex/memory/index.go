// Package memory provides an in-memory vector index with exact
// (brute-force) cosine similarity search.
//
// The index is an explicitly passed, lifecycle-scoped handle: it is
// constructed at batch-build start and read at query time. Readers take
// shared locks, so unlimited concurrent queries are safe as long as
// incremental inserts hold the write lock.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/finsight-labs/finrag/internal/core/domain"
	"github.com/finsight-labs/finrag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores index entries and serves filtered top-k searches.
type Index struct {
	mu          sync.RWMutex
	dimensions  int
	fingerprint string
	entries     map[string]driven.IndexEntry
	order       []string // insertion order, for deterministic iteration
}

// New creates an index for vectors of the given dimensionality.
func New(dimensions int) *Index {
	return &Index{
		dimensions: dimensions,
		entries:    make(map[string]driven.IndexEntry),
	}
}

// Dimensions returns the configured vector size.
func (i *Index) Dimensions() int {
	return i.dimensions
}

// Insert adds or replaces the entry for its chunk id.
func (i *Index) Insert(_ context.Context, entry driven.IndexEntry) error {
	if len(entry.Vector) != i.dimensions {
		return fmt.Errorf("%w: got %d, index expects %d",
			domain.ErrDimensionMismatch, len(entry.Vector), i.dimensions)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.entries[entry.ChunkID]; !exists {
		i.order = append(i.order, entry.ChunkID)
	}
	i.entries[entry.ChunkID] = entry
	return nil
}

// Delete removes an entry from the index.
func (i *Index) Delete(_ context.Context, chunkID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.entries[chunkID]; !exists {
		return domain.ErrNotFound
	}
	delete(i.entries, chunkID)
	for n, id := range i.order {
		if id == chunkID {
			i.order = append(i.order[:n], i.order[n+1:]...)
			break
		}
	}
	return nil
}

// Search returns up to k entries matching the filter, most similar first.
// The filter is applied before scoring so filtered-out entries never
// consume top-k slots. Ties are broken by chunk id ascending.
func (i *Index) Search(_ context.Context, query []float32, filter domain.Filter, k int) ([]driven.VectorHit, error) {
	if len(query) != i.dimensions {
		return nil, fmt.Errorf("%w: query has %d, index expects %d",
			domain.ErrDimensionMismatch, len(query), i.dimensions)
	}
	if k <= 0 {
		return nil, nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(i.entries))
	for _, id := range i.order {
		entry := i.entries[id]
		if !filter.Matches(domain.Chunk{Bank: entry.Bank, Year: entry.Year}) {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ChunkID: entry.ChunkID,
			Score:   cosine(query, entry.Vector),
		})
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].ChunkID < hits[b].ChunkID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of entries in the index.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}

// Fingerprint returns the embedder fingerprint the index was built with.
func (i *Index) Fingerprint() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.fingerprint
}

// SetFingerprint records the embedder fingerprint at build time.
func (i *Index) SetFingerprint(fp string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.fingerprint = fp
}

// Close releases resources.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries = make(map[string]driven.IndexEntry)
	i.order = nil
	return nil
}

// cosine computes cosine similarity between two equal-length vectors.
func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for n := range a {
		dot += float64(a[n]) * float64(b[n])
		na += float64(a[n]) * float64(a[n])
		nb += float64(b[n]) * float64(b[n])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
