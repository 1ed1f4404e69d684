package driven

import (
	"context"

	"github.com/finsight-labs/finrag/internal/core/domain"
)

// DocumentLoader reads a source PDF and yields its pages in order.
// Loading has no side effects beyond reading the input; acquisition
// (download) is an external concern.
type DocumentLoader interface {
	// Load reads the file at path and returns the document identity and
	// its pages in page order. It fails with domain.ErrLoad for corrupt
	// files, unsupported encodings or zero extractable pages.
	Load(ctx context.Context, path string) (*domain.Document, []domain.Page, error)

	// LoadBytes is Load over already-fetched bytes. The name is used in
	// place of a file path for the document identity.
	LoadBytes(ctx context.Context, name string, data []byte) (*domain.Document, []domain.Page, error)
}
