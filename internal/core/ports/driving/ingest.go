package driving

import (
	"context"

	"github.com/finsight-labs/finrag/internal/core/domain"
)

// IngestRequest describes one source document for a batch build.
type IngestRequest struct {
	// Path is the PDF file location.
	Path string

	// Bank and Year tag every chunk produced from the document.
	// When empty/zero they are inferred from the file name; if inference
	// also fails the document is rejected with domain.ErrMissingMetadata.
	Bank string
	Year int
}

// Ingestor runs the batch ingestion pipeline:
// load -> extract tables -> tag -> chunk -> embed -> index.
type Ingestor interface {
	// Ingest processes the batch and bulk-builds the index. Per-document
	// and per-chunk failures are collected in the report rather than
	// aborting the batch. Cancellation via ctx is cooperative and leaves
	// the index in a consistent, partially built state.
	Ingest(ctx context.Context, reqs []IngestRequest) (*domain.BuildReport, error)
}
