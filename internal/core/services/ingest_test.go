package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-labs/finrag/internal/adapters/driven/storage/memory"
	vectormem "github.com/finsight-labs/finrag/internal/adapters/driven/vectorindex/memory"
	"github.com/finsight-labs/finrag/internal/chunkers"
	"github.com/finsight-labs/finrag/internal/core/domain"
	"github.com/finsight-labs/finrag/internal/core/ports/driven"
	"github.com/finsight-labs/finrag/internal/core/ports/driving"
)

// fakeLoader serves canned documents keyed by path.
type fakeLoader struct {
	docs map[string]fakeDoc
}

type fakeDoc struct {
	doc   *domain.Document
	pages []domain.Page
}

func (f *fakeLoader) Load(_ context.Context, path string) (*domain.Document, []domain.Page, error) {
	entry, ok := f.docs[path]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrLoad, path)
	}
	// Copy so the service can mutate bank/year per request.
	doc := *entry.doc
	return &doc, entry.pages, nil
}

func (f *fakeLoader) LoadBytes(ctx context.Context, name string, _ []byte) (*domain.Document, []domain.Page, error) {
	return f.Load(ctx, name)
}

// fakeExtractor returns canned content keyed by page number.
type fakeExtractor struct {
	narrative map[int][]string
	tables    map[int][]domain.Table
}

func (f *fakeExtractor) Extract(_ *domain.Document, page domain.Page) ([]domain.Table, []string, error) {
	return f.tables[page.Number], f.narrative[page.Number], nil
}

// stubEmbedder produces deterministic vectors without a model. Texts
// matching badText get a truncated vector the index rejects.
type stubEmbedder struct {
	failBatch bool
	badText   string
}

func stubVector(text string) []float32 {
	return []float32{float32(len(text)%7 + 1), 1, 0.5}
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return stubVector(text), nil
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if s.failBatch {
		return nil, errors.New("embedding backend down")
	}
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		if s.badText != "" && t == s.badText {
			vecs[i] = []float32{1, 1}
			continue
		}
		vecs[i] = stubVector(t)
	}
	return vecs, nil
}

func (s *stubEmbedder) Dimensions() int     { return 3 }
func (s *stubEmbedder) Fingerprint() string { return "stub/test/3" }
func (s *stubEmbedder) Close() error        { return nil }

func testPipeline() driven.ChunkerPipeline {
	return chunkers.NewPipeline(chunkers.NewNarrative(), chunkers.NewTable())
}

func annualReportFixture() (*fakeLoader, *fakeExtractor) {
	loader := &fakeLoader{docs: map[string]fakeDoc{
		"/data/HDFC_2023.pdf": {
			doc: &domain.Document{ID: "doc-hdfc", Path: "/data/HDFC_2023.pdf", Bank: "HDFC", Year: 2023},
			pages: []domain.Page{
				{Number: 1},
				{Number: 2},
			},
		},
	}}
	extractor := &fakeExtractor{
		narrative: map[int][]string{
			1: {"The bank delivered strong growth across retail lending."},
			2: {"Asset quality remained stable through the year."},
		},
		tables: map[int][]domain.Table{
			2: {{
				ID:         "p2-t1",
				PageNumber: 2,
				Header:     []string{"Metric", "FY2023"},
				Rows:       [][]string{{"Net profit", "441.1"}, {"Deposits", "18834"}},
			}},
		},
	}
	return loader, extractor
}

func TestIngest_TwoPageDocument(t *testing.T) {
	loader, extractor := annualReportFixture()
	embedder := &stubEmbedder{}
	index := vectormem.New(3)
	store := memory.NewChunkStore()
	svc := NewIngestService(loader, extractor, testPipeline(), embedder, index, store)

	report, err := svc.Ingest(context.Background(), []driving.IngestRequest{
		{Path: "/data/HDFC_2023.pdf"},
	})

	require.NoError(t, err)
	assert.False(t, report.Failed())
	assert.Equal(t, 1, report.DocumentsProcessed)
	assert.Equal(t, 3, report.ChunksIndexed) // 2 narrative + 1 table
	assert.Equal(t, 3, index.Len())
	assert.Equal(t, "stub/test/3", index.Fingerprint())

	chunks, err := store.GetChunks(context.Background(), "doc-hdfc")
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	var tableChunks, narrativeChunks int
	for _, chunk := range chunks {
		assert.Equal(t, "HDFC", chunk.Bank)
		assert.Equal(t, 2023, chunk.Year)
		assert.NotEmpty(t, chunk.ID)
		assert.Len(t, chunk.Embedding, 3)
		switch chunk.Kind {
		case domain.KindTable:
			tableChunks++
			assert.Equal(t, "p2-t1", chunk.TableID)
			assert.Equal(t, 2, chunk.Page)
		case domain.KindNarrative:
			narrativeChunks++
			assert.Empty(t, chunk.TableID)
		}
	}
	assert.Equal(t, 1, tableChunks)
	assert.Equal(t, 2, narrativeChunks)
}

func TestIngest_LoadFailureDoesNotAbortBatch(t *testing.T) {
	loader, extractor := annualReportFixture()
	svc := NewIngestService(loader, extractor, testPipeline(),
		&stubEmbedder{}, vectormem.New(3), memory.NewChunkStore())

	report, err := svc.Ingest(context.Background(), []driving.IngestRequest{
		{Path: "/data/missing.pdf"},
		{Path: "/data/HDFC_2023.pdf"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.DocumentsProcessed)
	require.Len(t, report.DocumentFailures, 1)
	assert.Equal(t, "/data/missing.pdf", report.DocumentFailures[0].Path)
	assert.True(t, report.Failed())
}

func TestIngest_MissingMetadataRejectsDocument(t *testing.T) {
	loader := &fakeLoader{docs: map[string]fakeDoc{
		// No bank/year on the document and nothing inferable from the name.
		"/data/report.pdf": {
			doc:   &domain.Document{ID: "doc-x", Path: "/data/report.pdf"},
			pages: []domain.Page{{Number: 1}},
		},
	}}
	extractor := &fakeExtractor{narrative: map[int][]string{1: {"text"}}}
	svc := NewIngestService(loader, extractor, testPipeline(),
		&stubEmbedder{}, vectormem.New(3), memory.NewChunkStore())

	report, err := svc.Ingest(context.Background(), []driving.IngestRequest{
		{Path: "/data/report.pdf"},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, report.DocumentsProcessed)
	require.Len(t, report.DocumentFailures, 1)
	assert.Contains(t, report.DocumentFailures[0].Reason, "metadata")
}

func TestIngest_BankYearInferredFromFilename(t *testing.T) {
	loader := &fakeLoader{docs: map[string]fakeDoc{
		"/data/ICICI_2022.pdf": {
			doc:   &domain.Document{ID: "doc-icici", Path: "/data/ICICI_2022.pdf"},
			pages: []domain.Page{{Number: 1}},
		},
	}}
	extractor := &fakeExtractor{narrative: map[int][]string{1: {"Provisions declined."}}}
	store := memory.NewChunkStore()
	svc := NewIngestService(loader, extractor, testPipeline(),
		&stubEmbedder{}, vectormem.New(3), store)

	report, err := svc.Ingest(context.Background(), []driving.IngestRequest{
		{Path: "/data/ICICI_2022.pdf"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.DocumentsProcessed)

	chunks, err := store.GetChunks(context.Background(), "doc-icici")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "ICICI", chunks[0].Bank)
	assert.Equal(t, 2022, chunks[0].Year)
}

func TestIngest_ExplicitTagsWinOverFilename(t *testing.T) {
	loader := &fakeLoader{docs: map[string]fakeDoc{
		"/data/ICICI_2022.pdf": {
			doc:   &domain.Document{ID: "doc-icici", Path: "/data/ICICI_2022.pdf"},
			pages: []domain.Page{{Number: 1}},
		},
	}}
	extractor := &fakeExtractor{narrative: map[int][]string{1: {"Provisions declined."}}}
	store := memory.NewChunkStore()
	svc := NewIngestService(loader, extractor, testPipeline(),
		&stubEmbedder{}, vectormem.New(3), store)

	_, err := svc.Ingest(context.Background(), []driving.IngestRequest{
		{Path: "/data/ICICI_2022.pdf", Bank: "ICICI Bank", Year: 2021},
	})
	require.NoError(t, err)

	chunks, err := store.GetChunks(context.Background(), "doc-icici")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "ICICI Bank", chunks[0].Bank)
	assert.Equal(t, 2021, chunks[0].Year)
}

func TestIngest_EmbedderMismatchAborts(t *testing.T) {
	loader, extractor := annualReportFixture()
	index := vectormem.New(3)
	index.SetFingerprint("other/model/3")
	svc := NewIngestService(loader, extractor, testPipeline(),
		&stubEmbedder{}, index, memory.NewChunkStore())

	_, err := svc.Ingest(context.Background(), []driving.IngestRequest{
		{Path: "/data/HDFC_2023.pdf"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbedderMismatch)
}

func TestIngest_EmbedFailureRecordsChunkFailures(t *testing.T) {
	loader, extractor := annualReportFixture()
	index := vectormem.New(3)
	svc := NewIngestService(loader, extractor, testPipeline(),
		&stubEmbedder{failBatch: true}, index, memory.NewChunkStore())

	report, err := svc.Ingest(context.Background(), []driving.IngestRequest{
		{Path: "/data/HDFC_2023.pdf"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.DocumentsProcessed)
	assert.Equal(t, 0, report.ChunksIndexed)
	assert.Len(t, report.ChunkFailures, 3)
	assert.Equal(t, 0, index.Len())
}

func TestIngest_SingleChunkFailureKeepsSurvivors(t *testing.T) {
	loader, extractor := annualReportFixture()
	badText := "Asset quality remained stable through the year."
	embedder := &stubEmbedder{badText: badText}
	index := vectormem.New(3)
	store := memory.NewChunkStore()
	svc := NewIngestService(loader, extractor, testPipeline(), embedder, index, store)

	report, err := svc.Ingest(context.Background(), []driving.IngestRequest{
		{Path: "/data/HDFC_2023.pdf"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.DocumentsProcessed)
	assert.Equal(t, 2, report.ChunksIndexed)
	require.Len(t, report.ChunkFailures, 1)
	assert.Contains(t, report.ChunkFailures[0].Reason, "dimension")
	assert.Equal(t, 2, index.Len())

	// Queries only ever see the survivors.
	retriever := NewRetrieverService(embedder, index, store)
	results, err := retriever.Query(context.Background(), "asset quality", domain.Filter{}, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NotEqual(t, badText, r.Chunk.Text)
	}
}

func TestIngest_EmptyBatch(t *testing.T) {
	loader, extractor := annualReportFixture()
	svc := NewIngestService(loader, extractor, testPipeline(),
		&stubEmbedder{}, vectormem.New(3), memory.NewChunkStore())

	report, err := svc.Ingest(context.Background(), nil)

	require.NoError(t, err)
	assert.False(t, report.Failed())
	assert.Equal(t, 0, report.DocumentsProcessed)
}

func TestIngest_CancelledContext(t *testing.T) {
	loader, extractor := annualReportFixture()
	svc := NewIngestService(loader, extractor, testPipeline(),
		&stubEmbedder{}, vectormem.New(3), memory.NewChunkStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Ingest(ctx, []driving.IngestRequest{
		{Path: "/data/HDFC_2023.pdf"},
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngest_Deterministic(t *testing.T) {
	run := func() []domain.Chunk {
		loader, extractor := annualReportFixture()
		store := memory.NewChunkStore()
		svc := NewIngestService(loader, extractor, testPipeline(),
			&stubEmbedder{}, vectormem.New(3), store)

		_, err := svc.Ingest(context.Background(), []driving.IngestRequest{
			{Path: "/data/HDFC_2023.pdf"},
		})
		require.NoError(t, err)

		chunks, err := store.GetChunks(context.Background(), "doc-hdfc")
		require.NoError(t, err)
		return chunks
	}

	assert.Equal(t, run(), run())
}
