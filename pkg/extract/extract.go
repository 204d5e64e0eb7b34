// Package extract turns raw document bytes into text chunks sized for
// summarization.
package extract

import (
	"context"
	"errors"
	"fmt"
)

// Chunk is one contiguous span of extracted text.
type Chunk struct {
	// Text is the chunk content.
	Text string

	// Page is the 1-based page the chunk starts on, when known.
	Page int
}

// ErrNoText indicates the document contained no extractable text.
var ErrNoText = errors.New("document contains no extractable text")

// ExtractionError wraps failures from the underlying document reader.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extractor reads a staged document and splits it into chunks.
type Extractor interface {
	// ExtractAndChunk parses the document at path and returns ordered
	// text chunks. Returns an *ExtractionError (or ErrNoText) on
	// failure.
	ExtractAndChunk(ctx context.Context, path string) ([]Chunk, error)
}
