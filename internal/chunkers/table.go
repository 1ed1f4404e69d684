package chunkers

import (
	"context"

	"github.com/finsight-labs/finrag/internal/core/domain"
	"github.com/finsight-labs/finrag/internal/core/ports/driven"
)

// Ensure TableChunker implements the interface.
var _ driven.Chunker = (*TableChunker)(nil)

// TableChunker converts reconstructed tables into chunks.
//
// A table that fits the maximum size when serialised becomes one chunk.
// Larger tables are split by row groups with the header repeated in every
// resulting chunk, so each chunk remains self-describing.
type TableChunker struct {
	cfg config
}

// NewTable creates a table chunker with the given options.
func NewTable(opts ...Option) *TableChunker {
	return &TableChunker{cfg: newConfig(opts)}
}

// Name returns the chunker name.
func (t *TableChunker) Name() string {
	return "table"
}

// Chunk appends one or more chunks per table on the page.
func (t *TableChunker) Chunk(_ context.Context, content driven.PageContent, chunks []domain.Chunk) ([]domain.Chunk, error) {
	for _, table := range content.Tables {
		for _, text := range t.serialiseGroups(table) {
			ordinal := len(chunks)
			chunks = append(chunks, domain.Chunk{
				ID:         chunkID(content.Document.ID, content.Page, domain.KindTable, ordinal),
				DocumentID: content.Document.ID,
				Kind:       domain.KindTable,
				Text:       text,
				Page:       content.Page,
				TableID:    table.ID,
				Position:   ordinal,
			})
		}
	}
	return chunks, nil
}

// serialiseGroups renders the table as one serialised chunk when it fits,
// otherwise as row groups each carrying the header line. A group always
// holds at least one row, so a single row wider than the limit is emitted
// whole rather than split mid-row.
func (t *TableChunker) serialiseGroups(table domain.Table) []string {
	whole := table.SerialiseAll()
	if len(whole) <= t.cfg.maxSize {
		return []string{whole}
	}

	headerLen := len(table.Serialise(nil))

	var out []string
	var group [][]string
	groupLen := headerLen

	flush := func() {
		if len(group) > 0 {
			out = append(out, table.Serialise(group))
			group = nil
			groupLen = headerLen
		}
	}

	for _, row := range table.Rows {
		rowLen := len(table.Serialise([][]string{row})) - headerLen
		if len(group) > 0 && groupLen+rowLen > t.cfg.maxSize {
			flush()
		}
		group = append(group, row)
		groupLen += rowLen
	}
	flush()

	if len(out) == 0 {
		// Rowless table: header is still worth indexing.
		out = append(out, whole)
	}
	return out
}
