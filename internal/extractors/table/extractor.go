package table

import (
	"fmt"
	"strings"

	"github.com/finsight-labs/finrag/internal/core/domain"
	"github.com/finsight-labs/finrag/internal/core/ports/driven"
	"github.com/finsight-labs/finrag/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TableExtractor = (*Extractor)(nil)

// Extractor reconstructs tables from a page's layout using a pluggable
// detection strategy. Regions the strategy flags but that turn out
// degenerate or structurally inconsistent fall back to narrative text.
type Extractor struct {
	strategy DetectionStrategy
}

// Option configures the extractor.
type Option func(*Extractor)

// WithStrategy swaps the detection strategy.
func WithStrategy(s DetectionStrategy) Option {
	return func(e *Extractor) {
		if s != nil {
			e.strategy = s
		}
	}
}

// New creates an extractor. The default strategy is whitespace alignment
// with DefaultTolerance.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		strategy: NewAlignmentStrategy(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the tables detected on the page plus the remaining
// narrative text, one string per contiguous stretch of prose.
func (e *Extractor) Extract(doc *domain.Document, page domain.Page) ([]domain.Table, []string, error) {
	if doc == nil {
		return nil, nil, fmt.Errorf("document is nil: %w", domain.ErrInvalidInput)
	}

	var tables []domain.Table
	var narrative []string

	for _, block := range page.Blocks {
		regions := e.strategy.Detect(block.Lines)

		cursor := 0
		for _, region := range regions {
			if region.Start > cursor {
				appendNarrative(&narrative, block.Lines[cursor:region.Start])
			}

			regionLines := block.Lines[region.Start:region.End]
			t, err := e.buildTable(regionLines)
			switch {
			case err != nil:
				// Malformed grid: recoverable, pass the region through
				// as narrative.
				logger.Warn("Page %d: %v, region kept as narrative", page.Number, err)
				appendNarrative(&narrative, regionLines)
			case t == nil:
				// Degenerate region (one row or one column).
				appendNarrative(&narrative, regionLines)
			default:
				t.ID = fmt.Sprintf("p%d-t%d", page.Number, len(tables)+1)
				t.PageNumber = page.Number
				tables = append(tables, *t)
			}

			cursor = region.End
		}
		if cursor < len(block.Lines) {
			appendNarrative(&narrative, block.Lines[cursor:])
		}
	}

	logger.Debug("Page %d: %d tables, %d narrative blocks (strategy=%s)",
		page.Number, len(tables), len(narrative), e.strategy.Name())

	return tables, narrative, nil
}

// buildTable turns a detected region into a grid. It returns (nil, nil)
// for degenerate regions, and wraps domain.ErrExtraction when a row is
// wider than the header so the inconsistency cannot be resolved by
// padding.
func (e *Extractor) buildTable(lines []domain.Line) (*domain.Table, error) {
	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = e.strategy.Cells(line)
	}

	width := len(rows[0])
	if len(rows) < 2 || width < 2 {
		return nil, nil
	}

	for i, row := range rows {
		if len(row) > width {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d",
				domain.ErrExtraction, i, len(row), width)
		}
		// Short rows are padded to the header width.
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}

	t := &domain.Table{}
	if headerLooksLikeData(rows) {
		t.Header = synthesisedHeader(width)
		t.Rows = rows
	} else {
		t.Header = rows[0]
		t.Rows = rows[1:]
	}
	return t, nil
}

// headerLooksLikeData reports whether the first row reads as just
// another data row: in every column the first-row cell looks numeric
// and so do the column's remaining cells. A numeric-looking first row
// over textual data still serves as the header.
func headerLooksLikeData(rows [][]string) bool {
	for col := range rows[0] {
		if !looksNumeric(rows[0][col]) {
			return false
		}
		for _, row := range rows[1:] {
			if !looksNumeric(row[col]) {
				return false
			}
		}
	}
	return true
}

// synthesisedHeader produces fallback column labels col_1..col_n.
func synthesisedHeader(width int) []string {
	header := make([]string, width)
	for i := range header {
		header[i] = fmt.Sprintf("col_%d", i+1)
	}
	return header
}

// appendNarrative joins a stretch of lines into one narrative block,
// skipping empty stretches.
func appendNarrative(narrative *[]string, lines []domain.Line) {
	var parts []string
	for _, l := range lines {
		if t := strings.TrimSpace(l.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) > 0 {
		*narrative = append(*narrative, strings.Join(parts, "\n"))
	}
}
