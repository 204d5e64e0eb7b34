package summarize

import (
	"context"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lexsum/lexsum/pkg/extract"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = openai.GPT3Dot5Turbo

// chatClient is the slice of the OpenAI client the summarizer needs.
// *openai.Client satisfies it; tests inject fakes.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config configures the OpenAI-backed summarizer.
type Config struct {
	// APIKey authenticates against the OpenAI API (required).
	APIKey string

	// BaseURL overrides the API endpoint for OpenAI-compatible
	// backends. Leave empty for api.openai.com.
	BaseURL string

	// Model is the chat model name. Defaults to DefaultModel.
	Model string

	// RateLimit caps requests per second to the backend. Zero means
	// unlimited.
	RateLimit float64
}

// OpenAISummarizer implements Summarizer with a map-reduce chain over
// a chat model: each chunk is condensed independently, then the
// section summaries are combined into the final document summary.
type OpenAISummarizer struct {
	client  chatClient
	model   string
	limiter *rate.Limiter
	logger  *zap.Logger
}

var _ Summarizer = (*OpenAISummarizer)(nil)

// NewOpenAISummarizer creates a summarizer from config.
func NewOpenAISummarizer(cfg Config, logger *zap.Logger) (*OpenAISummarizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("summarizer api key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAISummarizer{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Summarize runs the map-reduce chain over chunks.
func (s *OpenAISummarizer) Summarize(ctx context.Context, chunks []extract.Chunk) (string, error) {
	if len(chunks) == 0 {
		return "", &SummarizationError{Err: fmt.Errorf("no chunks to summarize")}
	}

	// Map: condense each section.
	sectionSummaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		summary, err := s.complete(ctx, mapPrompt(chunk.Text))
		if err != nil {
			return "", &SummarizationError{Err: fmt.Errorf("map step %d/%d: %w", i+1, len(chunks), err)}
		}
		sectionSummaries = append(sectionSummaries, summary)
	}

	// A single short section needs no reduce pass.
	if len(sectionSummaries) == 1 {
		return sectionSummaries[0], nil
	}

	// Reduce: combine section summaries.
	combined, err := s.complete(ctx, combinePrompt(strings.Join(sectionSummaries, "\n\n")))
	if err != nil {
		return "", &SummarizationError{Err: fmt.Errorf("reduce step: %w", err)}
	}

	s.logger.Debug("summarization chain finished",
		zap.Int("chunks", len(chunks)),
		zap.Int("summary_chars", len(combined)))

	return combined, nil
}

// chatRequest builds a deterministic completion request. A literal
// zero temperature is dropped by the client's omitempty serialization
// and the API then falls back to its 1.0 default; the smallest
// positive float is the library's documented way to send 0.
func chatRequest(model, prompt string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       model,
		Temperature: math.SmallestNonzeroFloat32,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
}

func (s *OpenAISummarizer) complete(ctx context.Context, prompt string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := s.client.CreateChatCompletion(ctx, chatRequest(s.model, prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("backend returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
