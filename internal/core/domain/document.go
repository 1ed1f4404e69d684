package domain

// Document identifies one ingested source PDF.
// It is immutable once loaded.
type Document struct {
	// ID is the unique identifier, derived from the source checksum.
	ID string

	// Path is the original file location.
	Path string

	// Bank is the issuing institution (e.g. "HDFC", "SBI").
	Bank string

	// Year is the fiscal year the report covers.
	Year int

	// Checksum is the hex-encoded SHA-256 of the source bytes.
	Checksum string
}

// Page is the per-page content of a Document as produced by the loader.
// Pages are created during loading and consumed by table extraction;
// they are not persisted standalone.
type Page struct {
	// Number is the 1-based page number. Page order is preserved.
	Number int

	// Blocks are the layout-grouped text blocks on the page.
	Blocks []TextBlock
}

// TextBlock is a group of vertically adjacent lines.
// Blocks are the unit the table detector operates on.
type TextBlock struct {
	Lines []Line
}

// Line is a single row of text with horizontal layout hints.
type Line struct {
	Spans []Span
}

// Span is a horizontally contiguous run of text within a line.
// X is the left offset on the page in PDF points.
type Span struct {
	Text string
	X    float64
}

// Text joins the line's spans with single spaces.
func (l Line) Text() string {
	switch len(l.Spans) {
	case 0:
		return ""
	case 1:
		return l.Spans[0].Text
	}
	out := l.Spans[0].Text
	for _, s := range l.Spans[1:] {
		out += " " + s.Text
	}
	return out
}

// Text joins the block's lines with newlines.
func (b TextBlock) Text() string {
	out := ""
	for i, l := range b.Lines {
		if i > 0 {
			out += "\n"
		}
		out += l.Text()
	}
	return out
}
