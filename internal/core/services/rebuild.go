package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/finsight-labs/finrag/internal/core/domain"
	"github.com/finsight-labs/finrag/internal/core/ports/driven"
	"github.com/finsight-labs/finrag/internal/logger"
)

// MetaEmbedderFingerprint is the chunk store meta key holding the
// fingerprint of the embedding function the stored vectors were built with.
const MetaEmbedderFingerprint = "embedder_fingerprint"

// RebuildIndex hydrates an empty in-memory index from the persisted
// chunk store: stored embeddings are re-inserted and the recorded
// embedder fingerprint restored. A store with no prior build is a no-op.
func RebuildIndex(ctx context.Context, store driven.ChunkStore, index driven.VectorIndex) error {
	fingerprint, err := store.GetMeta(ctx, MetaEmbedderFingerprint)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load fingerprint: %w", err)
	}
	index.SetFingerprint(fingerprint)

	docs, err := store.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	inserted := 0
	for _, doc := range docs {
		chunks, err := store.GetChunks(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("load chunks for %s: %w", doc.ID, err)
		}
		for _, chunk := range chunks {
			if len(chunk.Embedding) == 0 {
				continue
			}
			err := index.Insert(ctx, driven.IndexEntry{
				ChunkID: chunk.ID,
				Vector:  chunk.Embedding,
				Bank:    chunk.Bank,
				Year:    chunk.Year,
			})
			if err != nil {
				return fmt.Errorf("insert chunk %s: %w", chunk.ID, err)
			}
			inserted++
		}
	}

	logger.Debug("Rebuilt index with %d chunk(s) from %d document(s)", inserted, len(docs))
	return nil
}
