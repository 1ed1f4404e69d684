package domain

// ChunkKind distinguishes narrative prose from table-derived content.
type ChunkKind string

const (
	// KindNarrative marks a chunk built from prose text.
	KindNarrative ChunkKind = "narrative"

	// KindTable marks a chunk built from a serialised table.
	KindTable ChunkKind = "table"
)

// Chunk is the atomic retrievable unit.
// Its id is deterministic for a given page and chunking configuration,
// and a chunk never spans two documents.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the originating Document.
	DocumentID string

	// Kind is the content kind (narrative or table).
	Kind ChunkKind

	// Text is the chunk content, bounded by the configured maximum size.
	Text string

	// Bank and Year are the provenance tags used for filtered retrieval.
	Bank string
	Year int

	// Page is the 1-based page number the content came from.
	Page int

	// TableID identifies the source table for table chunks, empty otherwise.
	TableID string

	// Position is the ordinal position within the page's chunk sequence.
	Position int

	// Embedding is the vector representation, set once indexed.
	Embedding []float32
}

// Record is the JSON-serialisable contract the pipeline emits and consumes
// at its boundary: one structured record per chunk, suitable for
// vectorisation by downstream tooling.
type Record struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Kind       string `json:"kind"`
	Bank       string `json:"bank"`
	Year       int    `json:"year"`
	DocumentID string `json:"document_id"`
	Page       int    `json:"page"`
	TableID    string `json:"table_id,omitempty"`
}

// ToRecord converts the chunk to its boundary representation.
func (c Chunk) ToRecord() Record {
	return Record{
		ID:         c.ID,
		Text:       c.Text,
		Kind:       string(c.Kind),
		Bank:       c.Bank,
		Year:       c.Year,
		DocumentID: c.DocumentID,
		Page:       c.Page,
		TableID:    c.TableID,
	}
}

// FromRecord converts a boundary record back into a chunk.
func FromRecord(r Record) Chunk {
	return Chunk{
		ID:         r.ID,
		DocumentID: r.DocumentID,
		Kind:       ChunkKind(r.Kind),
		Text:       r.Text,
		Bank:       r.Bank,
		Year:       r.Year,
		Page:       r.Page,
		TableID:    r.TableID,
	}
}
