// Package summarize produces condensed summaries of legal document
// text.
package summarize

import (
	"context"
	"fmt"

	"github.com/lexsum/lexsum/pkg/extract"
)

// SummarizationError wraps failures from the summarization backend.
type SummarizationError struct {
	Err error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarization failed: %v", e.Err)
}

func (e *SummarizationError) Unwrap() error {
	return e.Err
}

// Summarizer condenses a sequence of text chunks into one summary.
type Summarizer interface {
	// Summarize returns the summary text for the given chunks.
	// Returns a *SummarizationError on failure.
	Summarize(ctx context.Context, chunks []extract.Chunk) (string, error)
}
