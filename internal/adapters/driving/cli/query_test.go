package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-labs/finrag/internal/core/domain"
)

// mockRetriever returns canned results and records the call.
type mockRetriever struct {
	results   []domain.ScoredChunk
	err       error
	gotText   string
	gotFilter domain.Filter
	gotK      int
}

func (m *mockRetriever) Query(_ context.Context, text string, filter domain.Filter, k int) ([]domain.ScoredChunk, error) {
	m.gotText = text
	m.gotFilter = filter
	m.gotK = k
	return m.results, m.err
}

func swapRetriever(t *testing.T, m *mockRetriever) {
	t.Helper()
	old := retrieverService
	retrieverService = m
	t.Cleanup(func() { retrieverService = old })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestQueryCmd_Use(t *testing.T) {
	assert.Equal(t, "query [text]", queryCmd.Use)
}

func TestQueryCmd_RequiresExactlyOneArg(t *testing.T) {
	swapRetriever(t, &mockRetriever{})

	_, err := execute(t, "query")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestQueryCmd_HasTopKFlag(t *testing.T) {
	flag := queryCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag)
	assert.Equal(t, "k", flag.Shorthand)
}

func TestQueryCmd_PassesFilterAndK(t *testing.T) {
	m := &mockRetriever{results: []domain.ScoredChunk{
		{Chunk: domain.Chunk{ID: "c-1", Bank: "HDFC", Year: 2023, Page: 4, Text: "profit rose"}, Score: 0.91},
	}}
	swapRetriever(t, m)

	out, err := execute(t, "query", "profit growth", "--bank", "HDFC", "--year", "2023", "-k", "2")

	require.NoError(t, err)
	assert.Equal(t, "profit growth", m.gotText)
	assert.Equal(t, domain.Filter{Bank: "HDFC", Year: 2023}, m.gotFilter)
	assert.Equal(t, 2, m.gotK)
	assert.Contains(t, out, "HDFC 2023, page 4")
	assert.Contains(t, out, "profit rose")
}

func TestQueryCmd_DefaultTopKFromConfig(t *testing.T) {
	m := &mockRetriever{}
	swapRetriever(t, m)

	_, err := execute(t, "query", "profit", "--bank", "", "--year", "0", "-k", "0")

	require.NoError(t, err)
	assert.Equal(t, appConfig.Retrieval.TopK, m.gotK)
}

func TestQueryCmd_JSONOutput(t *testing.T) {
	swapRetriever(t, &mockRetriever{results: []domain.ScoredChunk{
		{Chunk: domain.Chunk{ID: "c-1", Kind: domain.KindTable, Bank: "HDFC", Year: 2023, Text: "Metric | FY2023"}, Score: 0.8},
	}})

	out, err := execute(t, "query", "profit", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"score": 0.8`)
	assert.Contains(t, out, `"kind": "table"`)
}

func TestQueryCmd_NoResults(t *testing.T) {
	swapRetriever(t, &mockRetriever{})

	out, err := execute(t, "query", "nothing", "--json=false")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestQueryCmd_ServiceError(t *testing.T) {
	swapRetriever(t, &mockRetriever{err: domain.ErrEmbedderMismatch})

	_, err := execute(t, "query", "profit")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbedderMismatch)
}

func TestQueryCmd_NotConfigured(t *testing.T) {
	old := retrieverService
	retrieverService = nil
	t.Cleanup(func() { retrieverService = old })

	_, err := execute(t, "query", "profit")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
