package table

import (
	"strings"

	"github.com/finsight-labs/finrag/internal/core/domain"
)

// Ensure DelimiterStrategy implements the interface.
var _ DetectionStrategy = (*DelimiterStrategy)(nil)

// DelimiterStrategy detects tables from repeated delimiters: runs of
// consecutive lines all split by the same delimiter into two or more
// fields. Useful for text dumps where column positions are lost but
// pipes or tabs survive.
type DelimiterStrategy struct {
	delimiters []string
}

// NewDelimiterStrategy creates the strategy. With no delimiters given it
// recognises pipes and tabs, in that precedence order.
func NewDelimiterStrategy(delimiters ...string) *DelimiterStrategy {
	if len(delimiters) == 0 {
		delimiters = []string{"|", "\t"}
	}
	return &DelimiterStrategy{delimiters: delimiters}
}

// Name returns the strategy name.
func (d *DelimiterStrategy) Name() string {
	return "delimiter"
}

// Detect scans for maximal runs of lines sharing a delimiter.
func (d *DelimiterStrategy) Detect(lines []domain.Line) []Region {
	var regions []Region

	i := 0
	for i < len(lines) {
		delim := d.delimiterFor(lines[i])
		if delim == "" {
			i++
			continue
		}

		j := i + 1
		for j < len(lines) && d.delimiterFor(lines[j]) == delim {
			j++
		}

		if j-i >= minRegionLines {
			regions = append(regions, Region{Start: i, End: j})
		}
		i = j
	}

	return regions
}

// Cells splits the line on its delimiter.
func (d *DelimiterStrategy) Cells(line domain.Line) []string {
	text := line.Text()
	delim := d.delimiterFor(line)
	if delim == "" {
		return []string{strings.TrimSpace(text)}
	}

	parts := strings.Split(text, delim)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	// Leading/trailing delimiters produce empty edge fields. Interior
	// empty fields are real empty cells and keep their column.
	start, end := 0, len(parts)
	for start < end && parts[start] == "" {
		start++
	}
	for end > start && parts[end-1] == "" {
		end--
	}
	return parts[start:end]
}

// delimiterFor returns the first configured delimiter that splits the
// line into at least two non-empty fields, or "".
func (d *DelimiterStrategy) delimiterFor(line domain.Line) string {
	text := line.Text()
	for _, delim := range d.delimiters {
		fields := 0
		for _, p := range strings.Split(text, delim) {
			if strings.TrimSpace(p) != "" {
				fields++
			}
		}
		if fields >= 2 {
			return delim
		}
	}
	return ""
}
