package chunkers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-labs/finrag/internal/core/domain"
	"github.com/finsight-labs/finrag/internal/core/ports/driven"
)

func pageContent(blocks ...string) driven.PageContent {
	return driven.PageContent{
		Document:  &domain.Document{ID: "doc-1", Bank: "HDFC", Year: 2023},
		Page:      1,
		Narrative: blocks,
	}
}

func TestNarrative_EmptyContent(t *testing.T) {
	chunker := NewNarrative()

	chunks, err := chunker.Chunk(context.Background(), pageContent(), nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestNarrative_SingleChunk(t *testing.T) {
	chunker := NewNarrative(WithMaxSize(200))

	chunks, err := chunker.Chunk(context.Background(),
		pageContent("Deposits grew by 15% during the year. Advances grew by 17%."), nil)
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, domain.KindNarrative, chunks[0].Kind)
	assert.Equal(t, 1, chunks[0].Page)
	assert.Equal(t, 0, chunks[0].Position)
	assert.Equal(t, "doc-1", chunks[0].DocumentID)
}

func TestNarrative_SizeBound(t *testing.T) {
	const max = 80
	chunker := NewNarrative(WithMaxSize(max))

	text := strings.TrimSpace(strings.Repeat("The bank maintained a healthy capital buffer. ", 10))
	chunks, err := chunker.Chunk(context.Background(), pageContent(text), nil)
	require.NoError(t, err)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), max, "chunk %d exceeds max size", c.Position)
	}
}

func TestNarrative_SplitsOnSentenceBoundaries(t *testing.T) {
	chunker := NewNarrative(WithMaxSize(60))

	chunks, err := chunker.Chunk(context.Background(),
		pageContent("First sentence is here. Second sentence follows it. Third one closes."), nil)
	require.NoError(t, err)

	for _, c := range chunks {
		// No chunk should start or end mid-sentence.
		assert.True(t, strings.HasSuffix(c.Text, "."), "chunk %q not sentence-aligned", c.Text)
	}
}

func TestNarrative_LongSentenceBreaksAtWhitespace(t *testing.T) {
	const max = 50
	chunker := NewNarrative(WithMaxSize(max))

	// One sentence well over the limit with no internal terminators.
	words := strings.TrimSpace(strings.Repeat("liquidity ", 20)) + "."
	chunks, err := chunker.Chunk(context.Background(), pageContent(words), nil)
	require.NoError(t, err)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), max)
		// Never mid-word: every piece is made of whole words.
		for _, w := range strings.Fields(strings.TrimSuffix(c.Text, ".")) {
			assert.Equal(t, "liquidity", w)
		}
	}
}

func TestNarrative_NonOverlappingByDefault(t *testing.T) {
	chunker := NewNarrative(WithMaxSize(60))

	text := "Alpha statement one. Beta statement two. Gamma statement three. Delta statement four."
	chunks, err := chunker.Chunk(context.Background(), pageContent(text), nil)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	rejoined := ""
	for i, c := range chunks {
		if i > 0 {
			rejoined += " "
		}
		rejoined += c.Text
	}
	assert.Equal(t, text, rejoined, "default chunks must not overlap in source position")
}

func TestNarrative_Overlap(t *testing.T) {
	chunker := NewNarrative(WithMaxSize(60), WithOverlap(25))

	text := "Alpha statement one. Beta statement two. Gamma statement three. Delta statement four."
	chunks, err := chunker.Chunk(context.Background(), pageContent(text), nil)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// Each later chunk starts with the trailing sentence of its predecessor.
	for i := 1; i < len(chunks); i++ {
		prev := splitSentences(chunks[i-1].Text)
		require.NotEmpty(t, prev)
		assert.True(t, strings.HasPrefix(chunks[i].Text, prev[len(prev)-1]),
			"chunk %d does not carry the overlap window", i)
		assert.LessOrEqual(t, len(chunks[i].Text), 60)
	}
}

func TestNarrative_OversizedOverlapIgnored(t *testing.T) {
	chunker := NewNarrative(WithMaxSize(60), WithOverlap(60))

	assert.Equal(t, DefaultOverlap, chunker.cfg.overlap)

	// Behaves like a zero-overlap chunker: no source text repeats.
	text := "Alpha statement one. Beta statement two. Gamma statement three. Delta statement four."
	chunks, err := chunker.Chunk(context.Background(), pageContent(text), nil)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	rejoined := ""
	for i, c := range chunks {
		if i > 0 {
			rejoined += " "
		}
		rejoined += c.Text
	}
	assert.Equal(t, text, rejoined)
}

func TestNarrative_Deterministic(t *testing.T) {
	chunker := NewNarrative(WithMaxSize(60))
	content := pageContent("One sentence here. Another sentence there. And a final one.")

	first, err := chunker.Chunk(context.Background(), content, nil)
	require.NoError(t, err)
	second, err := chunker.Chunk(context.Background(), content, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same page and configuration must yield identical chunks and ids")
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain sentences",
			text: "One here. Two there. Three everywhere.",
			want: []string{"One here.", "Two there.", "Three everywhere."},
		},
		{
			name: "trailing fragment without terminator",
			text: "Complete sentence. Trailing fragment",
			want: []string{"Complete sentence.", "Trailing fragment"},
		},
		{
			name: "consecutive terminators",
			text: "Really?! Yes.",
			want: []string{"Really?!", "Yes."},
		},
		{
			name: "decimal numbers stay together",
			text: "CAR stood at 19.26% in FY23. It improved.",
			want: []string{"CAR stood at 19.26% in FY23.", "It improved."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSentences(tt.text))
		})
	}
}
