// Package export writes and reads the pipeline's boundary record files:
// one JSON file per document, holding an array of chunk records ready
// for downstream vectorisation.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/finsight-labs/finrag/internal/core/domain"
)

// WriteDocumentRecords writes all chunks of a document to
// <dir>/<bank>_<year>.json as a pretty-printed record array. The file
// is replaced if it already exists.
func WriteDocumentRecords(dir string, doc *domain.Document, chunks []domain.Chunk) (string, error) {
	if doc == nil || doc.Bank == "" || doc.Year == 0 {
		return "", fmt.Errorf("%w: document needs bank and year for export", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	records := make([]domain.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = chunk.ToRecord()
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling records: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%d.json", doc.Bank, doc.Year))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("writing records: %w", err)
	}

	return path, nil
}

// ReadRecords loads a record file back into chunks, in file order.
func ReadRecords(path string) ([]domain.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing records: %w", err)
	}

	chunks := make([]domain.Chunk, len(records))
	for i, record := range records {
		chunks[i] = domain.FromRecord(record)
	}

	return chunks, nil
}
