package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-labs/finrag/internal/core/domain"
	"github.com/finsight-labs/finrag/internal/core/ports/driving"
)

// mockIngestor returns a canned report and records the requests.
type mockIngestor struct {
	report  *domain.BuildReport
	err     error
	gotReqs []driving.IngestRequest
}

func (m *mockIngestor) Ingest(_ context.Context, reqs []driving.IngestRequest) (*domain.BuildReport, error) {
	m.gotReqs = reqs
	if m.report == nil {
		m.report = &domain.BuildReport{}
	}
	return m.report, m.err
}

func swapIngestor(t *testing.T, m *mockIngestor) {
	t.Helper()
	old := ingestService
	ingestService = m
	t.Cleanup(func() { ingestService = old })
}

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [paths...]", ingestCmd.Use)
}

func TestIngestCmd_RequiresArgs(t *testing.T) {
	swapIngestor(t, &mockIngestor{})

	_, err := execute(t, "ingest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestIngestCmd_PassesTagsToRequests(t *testing.T) {
	m := &mockIngestor{report: &domain.BuildReport{DocumentsProcessed: 1, ChunksIndexed: 7}}
	swapIngestor(t, m)

	out, err := execute(t, "ingest", "/data/HDFC_2023.pdf", "--bank", "HDFC", "--year", "2023")

	require.NoError(t, err)
	require.Len(t, m.gotReqs, 1)
	assert.Equal(t, "/data/HDFC_2023.pdf", m.gotReqs[0].Path)
	assert.Equal(t, "HDFC", m.gotReqs[0].Bank)
	assert.Equal(t, 2023, m.gotReqs[0].Year)
	assert.Contains(t, out, "Documents processed: 1")
	assert.Contains(t, out, "Chunks indexed:      7")
}

func TestIngestCmd_ExpandsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "HDFC_2023.pdf"), []byte("x"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ICICI_2022.PDF"), []byte("x"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))

	m := &mockIngestor{}
	swapIngestor(t, m)

	_, err := execute(t, "ingest", dir, "--bank", "", "--year", "0")

	require.NoError(t, err)
	require.Len(t, m.gotReqs, 2)
	for _, req := range m.gotReqs {
		assert.True(t, strings.EqualFold(filepath.Ext(req.Path), ".pdf"))
	}
}

func TestIngestCmd_ReportsFailures(t *testing.T) {
	swapIngestor(t, &mockIngestor{report: &domain.BuildReport{
		DocumentsProcessed: 1,
		DocumentFailures: []domain.DocumentFailure{
			{Path: "/data/bad.pdf", Reason: "load document: corrupt"},
		},
	}})

	out, err := execute(t, "ingest", "/data/bad.pdf", "/data/good.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failures")
	assert.Contains(t, out, "Skipped /data/bad.pdf")
}

func TestIngestCmd_NotConfigured(t *testing.T) {
	old := ingestService
	ingestService = nil
	t.Cleanup(func() { ingestService = old })

	_, err := execute(t, "ingest", "/data/a.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
