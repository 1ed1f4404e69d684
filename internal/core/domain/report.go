package domain

// ChunkFailure records one chunk that could not be embedded or indexed
// during a bulk build.
type ChunkFailure struct {
	ChunkID string
	Reason  string
}

// DocumentFailure records one document the batch skipped entirely.
type DocumentFailure struct {
	Path   string
	Reason string
}

// BuildReport summarises a batch ingestion run. Per-document and per-chunk
// failures are collected here rather than aborting the batch, so partial
// progress is preserved.
type BuildReport struct {
	// DocumentsProcessed counts documents that made it through the pipeline.
	DocumentsProcessed int

	// ChunksIndexed counts successfully embedded and inserted chunks.
	ChunksIndexed int

	// ChunkFailures lists chunks that failed embedding or insertion.
	ChunkFailures []ChunkFailure

	// DocumentFailures lists documents skipped with their reasons.
	DocumentFailures []DocumentFailure
}

// Failed reports whether anything in the batch went wrong.
func (r BuildReport) Failed() bool {
	return len(r.ChunkFailures) > 0 || len(r.DocumentFailures) > 0
}
