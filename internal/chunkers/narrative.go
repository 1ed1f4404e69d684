package chunkers

import (
	"context"
	"strings"

	"github.com/finsight-labs/finrag/internal/core/domain"
	"github.com/finsight-labs/finrag/internal/core/ports/driven"
	"github.com/finsight-labs/finrag/internal/logger"
)

// DefaultMaxSize is the default maximum chunk size in characters.
const DefaultMaxSize = 1000

// DefaultOverlap is the default overlap between adjacent narrative chunks.
const DefaultOverlap = 0

// config holds shared chunker settings.
type config struct {
	maxSize int
	overlap int
}

// Option configures a chunker.
type Option func(*config)

// WithMaxSize sets the maximum chunk size in characters.
func WithMaxSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.maxSize = size
		}
	}
}

// WithOverlap sets the overlap between adjacent narrative chunks in
// characters. Overlap is applied at sentence granularity where possible.
func WithOverlap(overlap int) Option {
	return func(c *config) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

func newConfig(opts []Option) config {
	c := config{
		maxSize: DefaultMaxSize,
		overlap: DefaultOverlap,
	}
	for _, opt := range opts {
		opt(&c)
	}
	// An overlap that reaches the chunk size is invalid, same as the
	// config layer treats it. Ignore it rather than invent a value.
	if c.overlap >= c.maxSize {
		logger.Warn("Chunk overlap %d must be smaller than max size %d, using %d",
			c.overlap, c.maxSize, DefaultOverlap)
		c.overlap = DefaultOverlap
	}
	return c
}

// Ensure Narrative implements the interface.
var _ driven.Chunker = (*Narrative)(nil)

// Narrative splits a page's prose blocks into bounded chunks.
//
// Splitting happens on paragraph and sentence boundaries first. Only a
// single sentence exceeding the maximum size is split mid-sentence, and
// then at the nearest whitespace before the limit, never mid-word.
type Narrative struct {
	cfg config
}

// NewNarrative creates a narrative chunker with the given options.
func NewNarrative(opts ...Option) *Narrative {
	return &Narrative{cfg: newConfig(opts)}
}

// Name returns the chunker name.
func (n *Narrative) Name() string {
	return "narrative"
}

// Chunk appends narrative chunks for the page's prose blocks.
func (n *Narrative) Chunk(_ context.Context, content driven.PageContent, chunks []domain.Chunk) ([]domain.Chunk, error) {
	pieces := n.pack(content.Narrative)

	for _, text := range pieces {
		ordinal := len(chunks)
		chunks = append(chunks, domain.Chunk{
			ID:         chunkID(content.Document.ID, content.Page, domain.KindNarrative, ordinal),
			DocumentID: content.Document.ID,
			Kind:       domain.KindNarrative,
			Text:       text,
			Page:       content.Page,
			Position:   ordinal,
		})
	}

	return chunks, nil
}

// pack greedily fills chunks with whole sentences up to the size limit.
func (n *Narrative) pack(blocks []string) []string {
	var sentences []string
	for _, block := range blocks {
		for _, para := range strings.Split(block, "\n\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			for _, s := range splitSentences(para) {
				sentences = append(sentences, splitLongSentence(s, n.cfg.maxSize)...)
			}
		}
	}

	var out []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}

	for _, s := range sentences {
		if cur.Len() == 0 {
			cur.WriteString(s)
			continue
		}
		if cur.Len()+1+len(s) <= n.cfg.maxSize {
			cur.WriteByte(' ')
			cur.WriteString(s)
			continue
		}

		prev := cur.String()
		flush()
		if n.cfg.overlap > 0 {
			if tail := overlapTail(prev, n.cfg.overlap); tail != "" && len(tail)+1+len(s) <= n.cfg.maxSize {
				cur.WriteString(tail)
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(s)
	}
	flush()

	return out
}

// sentenceEnd marks characters that terminate a sentence.
func sentenceEnd(r byte) bool {
	return r == '.' || r == '!' || r == '?'
}

// splitSentences splits prose into sentences on terminal punctuation.
// Text after the last terminator becomes a final sentence of its own.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		if !sentenceEnd(text[i]) {
			continue
		}
		// Consume consecutive terminators ("..." or "?!").
		for i+1 < len(text) && sentenceEnd(text[i+1]) {
			i++
		}
		// Abbreviation-ish: don't split when the next rune is not a space.
		if i+1 < len(text) && text[i+1] != ' ' && text[i+1] != '\n' {
			continue
		}
		if s := strings.TrimSpace(text[start : i+1]); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// splitLongSentence breaks a sentence exceeding max at whitespace
// boundaries. A single word longer than max is kept whole: mid-word
// breaks are never produced.
func splitLongSentence(s string, max int) []string {
	if len(s) <= max {
		return []string{s}
	}

	var out []string
	for len(s) > max {
		cut := strings.LastIndexByte(s[:max+1], ' ')
		if cut <= 0 {
			// No whitespace before the limit: take the whole word.
			next := strings.IndexByte(s, ' ')
			if next < 0 {
				break
			}
			cut = next
		}
		out = append(out, strings.TrimSpace(s[:cut]))
		s = strings.TrimSpace(s[cut:])
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

// overlapTail returns whole trailing sentences of prev whose combined
// length fits the overlap window, so adjacent chunks share context.
func overlapTail(prev string, overlap int) string {
	sentences := splitSentences(prev)
	tail := ""
	for i := len(sentences) - 1; i >= 0; i-- {
		candidate := sentences[i]
		if tail != "" {
			candidate = candidate + " " + tail
		}
		if len(candidate) > overlap {
			break
		}
		tail = candidate
	}
	return tail
}
