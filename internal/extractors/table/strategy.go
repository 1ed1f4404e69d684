// Package table reconstructs tabular structures from page layout.
//
// Detection is heuristic and layout-based, so it sits behind a single
// DetectionStrategy interface: alternative heuristics (whitespace
// alignment vs. repeated delimiters) can be swapped without touching
// downstream components. All strategies are deterministic for a given
// page: no randomised tie-breaks.
package table

import (
	"strconv"
	"strings"

	"github.com/finsight-labs/finrag/internal/core/domain"
)

// Region is a run of consecutive lines within a block that a strategy
// considers a table candidate. End is exclusive.
type Region struct {
	Start int
	End   int
}

// DetectionStrategy finds candidate table regions in a block and splits
// candidate lines into cells.
type DetectionStrategy interface {
	// Name returns the strategy name for logging and configuration.
	Name() string

	// Detect returns candidate regions in line order. Regions never
	// overlap.
	Detect(lines []domain.Line) []Region

	// Cells splits one line of a detected region into column cells.
	Cells(line domain.Line) []string
}

// numericStrip holds characters ignored when testing whether a cell
// looks numeric: currency symbols, grouping commas, accounting
// parentheses and percent signs.
const numericStrip = "$€£₹,()% "

// looksNumeric reports whether a cell reads as a financial figure once
// decoration is stripped (e.g. "1,234", "(5.2)", "19.26%", "₹ 840").
func looksNumeric(s string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(numericStrip, r) {
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return false
	}
	_, err := strconv.ParseFloat(cleaned, 64)
	return err == nil
}
