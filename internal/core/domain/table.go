package domain

import "strings"

// cellSeparator delimits cells in the serialised table form.
const cellSeparator = " | "

// Table is a reconstructed grid of cells with an inferred header row.
// Invariant: every row has exactly len(Header) cells.
type Table struct {
	// ID is the unique identifier for the table within its document.
	ID string

	// PageNumber is the page the table was detected on.
	PageNumber int

	// Header holds the inferred (or synthesised) column labels.
	Header []string

	// Rows holds the data cells, row-major.
	Rows [][]string
}

// Columns returns the column count.
func (t Table) Columns() int {
	return len(t.Header)
}

// Serialise renders the header and the given rows as delimited text,
// one line per row. Pipes inside cells are replaced so the output can be
// parsed back into the same grid shape.
func (t Table) Serialise(rows [][]string) string {
	var b strings.Builder
	writeRow(&b, t.Header)
	for _, row := range rows {
		b.WriteByte('\n')
		writeRow(&b, row)
	}
	return b.String()
}

// SerialiseAll renders the header and all rows.
func (t Table) SerialiseAll() string {
	return t.Serialise(t.Rows)
}

func writeRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(cellSeparator)
		}
		b.WriteString(strings.ReplaceAll(cell, "|", "/"))
	}
}

// ParseTable reverses Serialise: the first line becomes the header, the
// remaining lines become rows. It returns ErrInvalidInput for empty input.
func ParseTable(s string) (Table, error) {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return Table{}, ErrInvalidInput
	}

	t := Table{Header: splitRow(lines[0])}
	for _, line := range lines[1:] {
		t.Rows = append(t.Rows, splitRow(line))
	}
	return t, nil
}

func splitRow(line string) []string {
	parts := strings.Split(line, cellSeparator)
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
