// Package tagger attaches provenance metadata to pipeline content.
//
// Tagging is a pure function of the document-level metadata and the page
// or table the content came from. Missing required tags fail loudly with
// domain.ErrMissingMetadata: downstream filter correctness depends on
// accurate tags, so content is never tagged with placeholder values.
package tagger

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/finsight-labs/finrag/internal/core/domain"
)

// Tags is the provenance record attached to every chunk.
type Tags struct {
	Bank       string
	Year       int
	DocumentID string
	Page       int

	// TableID is set for table-derived content, empty for narrative.
	TableID string
}

// Tag builds the provenance record for content from the given page.
// tableID is empty for narrative content.
func Tag(doc *domain.Document, page int, tableID string) (Tags, error) {
	if doc == nil {
		return Tags{}, domain.ErrInvalidInput
	}
	if doc.Bank == "" {
		return Tags{}, fmt.Errorf("%w: bank", domain.ErrMissingMetadata)
	}
	if doc.Year == 0 {
		return Tags{}, fmt.Errorf("%w: year", domain.ErrMissingMetadata)
	}

	return Tags{
		Bank:       doc.Bank,
		Year:       doc.Year,
		DocumentID: doc.ID,
		Page:       page,
		TableID:    tableID,
	}, nil
}

// Apply copies the tags onto a chunk.
func (t Tags) Apply(c *domain.Chunk) {
	c.Bank = t.Bank
	c.Year = t.Year
	c.DocumentID = t.DocumentID
	c.Page = t.Page
	c.TableID = t.TableID
}

// InferFromFilename derives bank and year from names like "HDFC_2023.pdf"
// or "sbi_2024.pdf". The bank is the portion before the last underscore
// (or the whole base name when no year suffix is present); the year is the
// trailing 4-digit group when it parses. A zero year means inference
// failed and the caller must supply one.
func InferFromFilename(path string) (bank string, year int) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if i := strings.LastIndex(base, "_"); i > 0 {
		if y, err := strconv.Atoi(base[i+1:]); err == nil && y >= 1900 && y <= 2200 {
			return base[:i], y
		}
	}
	return base, 0
}
