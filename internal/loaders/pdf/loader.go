// Package pdf loads source PDFs into pages with layout hints.
//
// Extraction keeps per-row horizontal offsets so the table extractor can
// detect column alignment downstream. The loader has no side effects
// beyond reading its input; document acquisition is an external concern.
package pdf

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/finsight-labs/finrag/internal/core/domain"
	"github.com/finsight-labs/finrag/internal/core/ports/driven"
	"github.com/finsight-labs/finrag/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// docNamespace is the fixed UUID namespace for deterministic document ids.
var docNamespace = uuid.MustParse("0b41e13c-89d4-4c33-9ad5-8f3a27c5b6e1")

// spanGap is the horizontal gap, in PDF points, beyond which adjacent
// text fragments on a row become separate spans (column candidates).
const spanGap = 14.0

// blockGap is the vertical gap, in PDF points, beyond which consecutive
// rows start a new text block.
const blockGap = 18.0

// Loader reads PDFs via ledongthuc/pdf.
type Loader struct{}

// New creates a PDF loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the file at path and returns the document identity and its
// pages in page order.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Document, []domain.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", domain.ErrLoad, path, err)
	}
	return l.load(ctx, path, data)
}

// LoadBytes is Load over already-fetched bytes.
func (l *Loader) LoadBytes(ctx context.Context, name string, data []byte) (*domain.Document, []domain.Page, error) {
	return l.load(ctx, name, data)
}

func (l *Loader) load(ctx context.Context, name string, data []byte) (doc *domain.Document, pages []domain.Page, err error) {
	// The underlying parser panics on some malformed inputs; a corrupt
	// document must surface as ErrLoad, not kill the batch.
	defer func() {
		if r := recover(); r != nil {
			doc, pages = nil, nil
			err = fmt.Errorf("%w: %s: parser panic: %v", domain.ErrLoad, name, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", domain.ErrLoad, name, err)
	}

	pageCount := reader.NumPage()
	if pageCount == 0 {
		return nil, nil, fmt.Errorf("%w: %s: zero pages", domain.ErrLoad, name)
	}

	for i := 1; i <= pageCount; i++ {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			logger.Warn("Failed to extract text from page %d of %s: %v", i, name, err)
			continue
		}

		blocks := buildBlocks(convertRows(rows))
		pages = append(pages, domain.Page{Number: i, Blocks: blocks})
	}

	if !hasContent(pages) {
		return nil, nil, fmt.Errorf("%w: %s: no extractable content", domain.ErrLoad, name)
	}

	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])

	doc = &domain.Document{
		ID:       uuid.NewSHA1(docNamespace, []byte(checksum)).String(),
		Path:     name,
		Checksum: checksum,
	}

	logger.Debug("Loaded %s: %d pages, checksum %s", name, len(pages), checksum[:12])
	return doc, pages, nil
}

// fragment is one positioned piece of row text from the parser.
type fragment struct {
	x        float64
	w        float64
	fontSize float64
	text     string
}

// rawRow is one extracted row with its vertical position.
type rawRow struct {
	y     float64
	frags []fragment
}

func convertRows(rows pdf.Rows) []rawRow {
	out := make([]rawRow, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		r := rawRow{y: float64(row.Position)}
		for _, t := range row.Content {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			r.frags = append(r.frags, fragment{x: t.X, w: t.W, fontSize: t.FontSize, text: t.S})
		}
		if len(r.frags) > 0 {
			out = append(out, r)
		}
	}
	return out
}

// buildBlocks groups rows into blocks on vertical gaps and merges row
// fragments into spans on horizontal gaps.
func buildBlocks(rows []rawRow) []domain.TextBlock {
	if len(rows) == 0 {
		return nil
	}

	// Top of page first. Stable keeps parser order for equal positions.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].y > rows[j].y
	})

	var blocks []domain.TextBlock
	var current []domain.Line

	prevY := rows[0].y
	for _, row := range rows {
		if prevY-row.y > blockGap && len(current) > 0 {
			blocks = append(blocks, domain.TextBlock{Lines: current})
			current = nil
		}
		current = append(current, mergeFragments(row.frags))
		prevY = row.y
	}
	if len(current) > 0 {
		blocks = append(blocks, domain.TextBlock{Lines: current})
	}

	return blocks
}

// mergeFragments joins horizontally adjacent fragments into spans,
// keeping a new span wherever the gap suggests a column boundary.
func mergeFragments(frags []fragment) domain.Line {
	sort.SliceStable(frags, func(i, j int) bool {
		return frags[i].x < frags[j].x
	})

	var line domain.Line
	var cur *domain.Span
	var curEnd float64

	for _, f := range frags {
		if cur == nil || f.x-curEnd > spanGap {
			line.Spans = append(line.Spans, domain.Span{Text: f.text, X: f.x})
			cur = &line.Spans[len(line.Spans)-1]
		} else {
			if !strings.HasSuffix(cur.Text, " ") && !strings.HasPrefix(f.text, " ") && f.x-curEnd > 0.5 {
				cur.Text += " "
			}
			cur.Text += f.text
		}
		curEnd = f.x + advance(f)
	}

	for i := range line.Spans {
		line.Spans[i].Text = strings.Join(strings.Fields(line.Spans[i].Text), " ")
	}
	return line
}

// advance estimates the horizontal extent of a fragment. Some PDFs omit
// widths; fall back to an approximate glyph advance from the font size.
func advance(f fragment) float64 {
	if f.w > 0 {
		return f.w
	}
	size := f.fontSize
	if size <= 0 {
		size = 10
	}
	return 0.5 * size * float64(len(f.text))
}

func hasContent(pages []domain.Page) bool {
	for _, p := range pages {
		if len(p.Blocks) > 0 {
			return true
		}
	}
	return false
}
