package table

import (
	"math"

	"github.com/finsight-labs/finrag/internal/core/domain"
)

// DefaultTolerance is the horizontal slack, in PDF points, within which
// span offsets on different lines count as the same column.
const DefaultTolerance = 12.0

// minRegionLines is the smallest run of lines treated as a candidate.
// One-row regions are narrative by policy.
const minRegionLines = 2

// Ensure AlignmentStrategy implements the interface.
var _ DetectionStrategy = (*AlignmentStrategy)(nil)

// AlignmentStrategy detects tables from whitespace alignment: runs of
// consecutive lines whose spans line up into at least two columns at
// consistent X offsets.
type AlignmentStrategy struct {
	tolerance float64
}

// NewAlignmentStrategy creates the strategy with the given tolerance.
// A non-positive tolerance falls back to DefaultTolerance.
func NewAlignmentStrategy(tolerance float64) *AlignmentStrategy {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &AlignmentStrategy{tolerance: tolerance}
}

// Name returns the strategy name.
func (a *AlignmentStrategy) Name() string {
	return "alignment"
}

// Detect scans for maximal runs of lines aligned to the column grid of
// the run's first line.
func (a *AlignmentStrategy) Detect(lines []domain.Line) []Region {
	var regions []Region

	i := 0
	for i < len(lines) {
		if len(lines[i].Spans) < 2 {
			i++
			continue
		}

		columns := spanOffsets(lines[i])
		j := i + 1
		for j < len(lines) && a.aligned(lines[j], columns) {
			j++
		}

		if j-i >= minRegionLines {
			regions = append(regions, Region{Start: i, End: j})
		}
		i = j
	}

	return regions
}

// Cells maps a line's spans to cells in column order.
func (a *AlignmentStrategy) Cells(line domain.Line) []string {
	cells := make([]string, len(line.Spans))
	for i, s := range line.Spans {
		cells[i] = s.Text
	}
	return cells
}

// aligned reports whether every span of the line sits on one of the
// reference columns, with at least two spans present.
func (a *AlignmentStrategy) aligned(line domain.Line, columns []float64) bool {
	if len(line.Spans) < 2 || len(line.Spans) > len(columns) {
		return false
	}
	for _, s := range line.Spans {
		if !a.onColumn(s.X, columns) {
			return false
		}
	}
	return true
}

func (a *AlignmentStrategy) onColumn(x float64, columns []float64) bool {
	for _, c := range columns {
		if math.Abs(x-c) <= a.tolerance {
			return true
		}
	}
	return false
}

func spanOffsets(line domain.Line) []float64 {
	offsets := make([]float64, len(line.Spans))
	for i, s := range line.Spans {
		offsets[i] = s.X
	}
	return offsets
}
