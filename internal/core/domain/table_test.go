package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableSerialiseRoundTrip(t *testing.T) {
	table := Table{
		ID:         "t1",
		PageNumber: 2,
		Header:     []string{"Metric", "FY2022", "FY2023"},
		Rows: [][]string{
			{"Net Interest Income", "86,102", "108,532"},
			{"Capital Adequacy Ratio", "18.90%", "19.26%"},
			{"Gross NPA", "1.17%", "1.12%"},
		},
	}

	parsed, err := ParseTable(table.SerialiseAll())
	require.NoError(t, err)

	assert.Equal(t, table.Columns(), parsed.Columns())
	assert.Len(t, parsed.Rows, len(table.Rows))
	assert.Equal(t, table.Header, parsed.Header)
	assert.Equal(t, table.Rows, parsed.Rows)
}

func TestTableSerialiseEscapesPipes(t *testing.T) {
	table := Table{
		Header: []string{"Item", "Value"},
		Rows:   [][]string{{"Loans | Advances", "1,200"}},
	}

	parsed, err := ParseTable(table.SerialiseAll())
	require.NoError(t, err)

	// The pipe inside the cell must not create an extra column.
	assert.Equal(t, 2, parsed.Columns())
	require.Len(t, parsed.Rows, 1)
	assert.Len(t, parsed.Rows[0], 2)
}

func TestTableSerialiseHeaderOnly(t *testing.T) {
	table := Table{Header: []string{"a", "b"}}

	parsed, err := ParseTable(table.SerialiseAll())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, parsed.Header)
	assert.Empty(t, parsed.Rows)
}

func TestParseTableEmpty(t *testing.T) {
	_, err := ParseTable("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestChunkRecordRoundTrip(t *testing.T) {
	chunk := Chunk{
		ID:         "c1",
		DocumentID: "d1",
		Kind:       KindTable,
		Text:       "Metric | FY2023",
		Bank:       "HDFC",
		Year:       2023,
		Page:       12,
		TableID:    "t3",
		Position:   1,
	}

	got := FromRecord(chunk.ToRecord())
	chunk.Embedding = nil
	assert.Equal(t, chunk, got)
}

func TestFilterMatches(t *testing.T) {
	chunk := Chunk{Bank: "SBI", Year: 2023}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter matches all", Filter{}, true},
		{"bank match", Filter{Bank: "SBI"}, true},
		{"bank mismatch", Filter{Bank: "HDFC"}, false},
		{"year match", Filter{Year: 2023}, true},
		{"year mismatch", Filter{Year: 2022}, false},
		{"both match", Filter{Bank: "SBI", Year: 2023}, true},
		{"bank match year mismatch", Filter{Bank: "SBI", Year: 2022}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(chunk))
		})
	}
}
