package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor implements Extractor for PDF documents.
//
// Pages are read in order, concatenated, and split by the configured
// chunker. Pages that fail text extraction are skipped; the document
// only fails when nothing at all could be read.
type PDFExtractor struct {
	chunker *Chunker
}

var _ Extractor = (*PDFExtractor)(nil)

// NewPDFExtractor returns an extractor using the given chunker. A nil
// chunker uses the defaults.
func NewPDFExtractor(chunker *Chunker) *PDFExtractor {
	if chunker == nil {
		chunker = NewChunker(DefaultChunkSize, DefaultChunkOverlap)
	}
	return &PDFExtractor{chunker: chunker}
}

// ExtractAndChunk parses the PDF at path and returns ordered text
// chunks.
func (e *PDFExtractor) ExtractAndChunk(ctx context.Context, path string) ([]Chunk, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &ExtractionError{Err: fmt.Errorf("parse pdf: %w", err)}
	}
	defer func() { _ = f.Close() }()

	var chunks []Chunk
	total := reader.NumPage()
	for pageNum := 1; pageNum <= total; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, &ExtractionError{Err: err}
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		for _, part := range e.chunker.Split(text) {
			chunks = append(chunks, Chunk{Text: part, Page: pageNum})
		}
	}

	if len(chunks) == 0 {
		return nil, ErrNoText
	}
	return chunks, nil
}
