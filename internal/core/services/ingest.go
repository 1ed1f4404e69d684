package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/finsight-labs/finrag/internal/core/domain"
	"github.com/finsight-labs/finrag/internal/core/ports/driven"
	"github.com/finsight-labs/finrag/internal/core/ports/driving"
	"github.com/finsight-labs/finrag/internal/logger"
	"github.com/finsight-labs/finrag/internal/tagger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// Default ingestion parameters.
const (
	// DefaultBatchSize is the number of chunk texts embedded per batch.
	DefaultBatchSize = 100

	// DefaultWorkers is the number of documents processed concurrently.
	DefaultWorkers = 4
)

// IngestService runs the batch build pipeline:
// load -> extract tables -> tag -> chunk -> embed -> index.
type IngestService struct {
	loader    driven.DocumentLoader
	extractor driven.TableExtractor
	pipeline  driven.ChunkerPipeline
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	store     driven.ChunkStore

	batchSize int
	workers   int

	// mu guards the build report during concurrent document processing.
	mu sync.Mutex
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithBatchSize sets the embedding batch size.
func WithBatchSize(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithWorkers sets the number of documents processed concurrently.
func WithWorkers(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewIngestService creates a new ingestion service.
func NewIngestService(
	loader driven.DocumentLoader,
	extractor driven.TableExtractor,
	pipeline driven.ChunkerPipeline,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	store driven.ChunkStore,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		loader:    loader,
		extractor: extractor,
		pipeline:  pipeline,
		embedder:  embedder,
		index:     index,
		store:     store,
		batchSize: DefaultBatchSize,
		workers:   DefaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest processes the batch and bulk-builds the index. Per-document
// and per-chunk failures are collected in the report rather than
// aborting the batch; only cancellation or an embedder mismatch aborts.
func (s *IngestService) Ingest(ctx context.Context, reqs []driving.IngestRequest) (*domain.BuildReport, error) {
	if len(reqs) == 0 {
		return &domain.BuildReport{}, nil
	}

	// An index built with one embedding function must never be extended
	// with another.
	fingerprint := s.embedder.Fingerprint()
	if existing := s.index.Fingerprint(); existing != "" && existing != fingerprint {
		return nil, fmt.Errorf("%w: index built with %q, embedder is %q",
			domain.ErrEmbedderMismatch, existing, fingerprint)
	}
	s.index.SetFingerprint(fingerprint)
	if err := s.store.SetMeta(ctx, MetaEmbedderFingerprint, fingerprint); err != nil {
		return nil, fmt.Errorf("persist fingerprint: %w", err)
	}

	report := &domain.BuildReport{}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, req := range reqs {
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			s.ingestDocument(groupCtx, req, report)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Cancelled mid-batch: the index stays consistent with whatever
		// was fully inserted before cancellation.
		return report, err
	}

	logger.Info("Ingested %d document(s), %d chunk(s) indexed, %d failure(s)",
		report.DocumentsProcessed, report.ChunksIndexed,
		len(report.DocumentFailures)+len(report.ChunkFailures))

	return report, nil
}

// ingestDocument runs one document through the full pipeline, recording
// failures in the report instead of returning them.
func (s *IngestService) ingestDocument(ctx context.Context, req driving.IngestRequest, report *domain.BuildReport) {
	doc, pages, err := s.loader.Load(ctx, req.Path)
	if err != nil {
		s.recordDocumentFailure(report, req.Path, err)
		return
	}

	// Explicit tags win over filename inference.
	if req.Bank != "" {
		doc.Bank = req.Bank
	}
	if req.Year != 0 {
		doc.Year = req.Year
	}
	if doc.Bank == "" || doc.Year == 0 {
		bank, year := tagger.InferFromFilename(req.Path)
		if doc.Bank == "" {
			doc.Bank = bank
		}
		if doc.Year == 0 {
			doc.Year = year
		}
	}

	chunks, err := s.chunkDocument(ctx, doc, pages)
	if err != nil {
		s.recordDocumentFailure(report, req.Path, err)
		return
	}

	if err := s.store.SaveDocument(ctx, doc); err != nil {
		s.recordDocumentFailure(report, req.Path, err)
		return
	}

	indexed := s.embedAndIndex(ctx, chunks, report)

	s.mu.Lock()
	report.DocumentsProcessed++
	report.ChunksIndexed += indexed
	s.mu.Unlock()

	logger.Debug("Document %s: %d page(s), %d chunk(s), %d indexed",
		doc.Path, len(pages), len(chunks), indexed)
}

// chunkDocument extracts tables and narrative from every page, tags the
// content and runs it through the chunker pipeline.
func (s *IngestService) chunkDocument(ctx context.Context, doc *domain.Document, pages []domain.Page) ([]domain.Chunk, error) {
	var chunks []domain.Chunk

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Validate provenance up front: untagged content must never
		// reach the index.
		tags, err := tagger.Tag(doc, page.Number, "")
		if err != nil {
			return nil, err
		}

		tables, narrative, err := s.extractor.Extract(doc, page)
		if err != nil {
			return nil, err
		}

		pageChunks, err := s.pipeline.Chunk(ctx, driven.PageContent{
			Document:  doc,
			Page:      page.Number,
			Narrative: narrative,
			Tables:    tables,
		})
		if err != nil {
			return nil, err
		}

		for i := range pageChunks {
			tableID := pageChunks[i].TableID
			tags.TableID = tableID
			tags.Apply(&pageChunks[i])
		}
		chunks = append(chunks, pageChunks...)
	}

	return chunks, nil
}

// embedAndIndex embeds chunks in batches, persists them and inserts
// their vectors. Returns the number of chunks indexed; failures are
// recorded per chunk.
func (s *IngestService) embedAndIndex(ctx context.Context, chunks []domain.Chunk, report *domain.BuildReport) int {
	indexed := 0

	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))
		batch := chunks[start:end]

		if err := ctx.Err(); err != nil {
			s.recordChunkFailures(report, batch, err)
			continue
		}

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil || len(vectors) != len(batch) {
			if err == nil {
				err = fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(batch))
			}
			s.recordChunkFailures(report, batch, err)
			continue
		}

		for i := range batch {
			batch[i].Embedding = vectors[i]
		}

		if err := s.store.SaveChunks(ctx, batch); err != nil {
			s.recordChunkFailures(report, batch, err)
			continue
		}

		for i := range batch {
			if err := ctx.Err(); err != nil {
				s.recordChunkFailures(report, batch[i:], err)
				break
			}
			err := s.index.Insert(ctx, driven.IndexEntry{
				ChunkID: batch[i].ID,
				Vector:  batch[i].Embedding,
				Bank:    batch[i].Bank,
				Year:    batch[i].Year,
			})
			if err != nil {
				s.recordChunkFailures(report, batch[i:i+1], err)
				continue
			}
			indexed++
		}
	}

	return indexed
}

func (s *IngestService) recordDocumentFailure(report *domain.BuildReport, path string, err error) {
	logger.Warn("Skipping document %s: %v", path, err)
	s.mu.Lock()
	defer s.mu.Unlock()
	report.DocumentFailures = append(report.DocumentFailures, domain.DocumentFailure{
		Path:   path,
		Reason: err.Error(),
	})
}

func (s *IngestService) recordChunkFailures(report *domain.BuildReport, chunks []domain.Chunk, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		report.ChunkFailures = append(report.ChunkFailures, domain.ChunkFailure{
			ChunkID: chunk.ID,
			Reason:  err.Error(),
		})
	}
}
