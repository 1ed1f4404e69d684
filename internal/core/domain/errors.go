package domain

import "errors"

// Domain errors represent pipeline failures.
// These are distinct from infrastructure errors and are matched
// with errors.Is after wrapping at call sites.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Ingestion errors.

	// ErrLoad indicates an unreadable or corrupt source document.
	// Fatal for that document; the batch continues with the rest.
	ErrLoad = errors.New("document load failed")

	// ErrExtraction indicates a malformed table layout that could not be
	// resolved by padding. Recoverable: the region falls back to narrative.
	ErrExtraction = errors.New("table extraction failed")

	// ErrMissingMetadata indicates required tags (bank, year) are absent.
	// Fatal for that document; content is never silently mis-tagged.
	ErrMissingMetadata = errors.New("required metadata missing")

	// Index and embedding errors.

	// ErrDimensionMismatch indicates a vector whose dimensionality does not
	// match the index configuration. Surfaced immediately, never retried.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbedderMismatch indicates the query embedder differs from the one
	// the index was built with. Surfaced immediately, never retried.
	ErrEmbedderMismatch = errors.New("embedder fingerprint mismatch")

	// ErrEmbeddingTimeout indicates the embedding service did not respond
	// within the configured retry budget.
	ErrEmbeddingTimeout = errors.New("embedding request timed out")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answer generation is disabled without it; retrieval still works.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
