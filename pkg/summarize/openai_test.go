package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lexsum/lexsum/pkg/extract"
)

type fakeChatClient struct {
	calls    []string
	requests []openai.ChatCompletionRequest
	reply    func(prompt string) (string, error)
}

func (f *fakeChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	prompt := req.Messages[0].Content
	f.calls = append(f.calls, prompt)
	f.requests = append(f.requests, req)
	content, err := f.reply(prompt)
	if err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}, nil
}

func newTestSummarizer(client chatClient) *OpenAISummarizer {
	return &OpenAISummarizer{
		client:  client,
		model:   DefaultModel,
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  zap.NewNop(),
	}
}

func TestSummarize_MapReduce(t *testing.T) {
	fake := &fakeChatClient{
		reply: func(prompt string) (string, error) {
			if strings.Contains(prompt, "legal expert") {
				return "final summary", nil
			}
			return "section summary", nil
		},
	}
	s := newTestSummarizer(fake)

	got, err := s.Summarize(context.Background(), []extract.Chunk{
		{Text: "clause one", Page: 1},
		{Text: "clause two", Page: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "final summary", got)

	// Two map calls plus one reduce call.
	require.Len(t, fake.calls, 3)
	assert.Contains(t, fake.calls[0], "clause one")
	assert.Contains(t, fake.calls[1], "clause two")
	assert.Contains(t, fake.calls[2], "section summary")
}

// The client serializes requests with omitempty, so a literal zero
// temperature never reaches the wire and the backend falls back to its
// own default. Every request must carry an explicit temperature field
// that rounds to 0.
func TestSummarize_TemperatureZeroOnTheWire(t *testing.T) {
	fake := &fakeChatClient{
		reply: func(prompt string) (string, error) { return "summary", nil },
	}
	s := newTestSummarizer(fake)

	_, err := s.Summarize(context.Background(), []extract.Chunk{
		{Text: "clause one", Page: 1},
		{Text: "clause two", Page: 2},
	})
	require.NoError(t, err)
	require.NotEmpty(t, fake.requests)

	for _, req := range fake.requests {
		body, merr := json.Marshal(req)
		require.NoError(t, merr)
		assert.Contains(t, string(body), `"temperature"`,
			"temperature must survive serialization")
		assert.Greater(t, req.Temperature, float32(0))
		assert.Less(t, req.Temperature, float32(1e-30))
	}
}

func TestSummarize_SingleChunkSkipsReduce(t *testing.T) {
	fake := &fakeChatClient{
		reply: func(prompt string) (string, error) { return "only summary", nil },
	}
	s := newTestSummarizer(fake)

	got, err := s.Summarize(context.Background(), []extract.Chunk{{Text: "clause", Page: 1}})
	require.NoError(t, err)
	assert.Equal(t, "only summary", got)
	assert.Len(t, fake.calls, 1)
}

func TestSummarize_BackendError(t *testing.T) {
	fake := &fakeChatClient{
		reply: func(prompt string) (string, error) {
			return "", fmt.Errorf("backend down")
		},
	}
	s := newTestSummarizer(fake)

	_, err := s.Summarize(context.Background(), []extract.Chunk{{Text: "clause", Page: 1}})
	require.Error(t, err)

	var sumErr *SummarizationError
	assert.True(t, errors.As(err, &sumErr))
	assert.Contains(t, err.Error(), "backend down")
}

func TestSummarize_NoChunks(t *testing.T) {
	s := newTestSummarizer(&fakeChatClient{reply: func(string) (string, error) { return "", nil }})

	_, err := s.Summarize(context.Background(), nil)
	require.Error(t, err)

	var sumErr *SummarizationError
	assert.True(t, errors.As(err, &sumErr))
}

func TestNewOpenAISummarizer_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAISummarizer(Config{}, nil)
	assert.Error(t, err)

	s, err := NewOpenAISummarizer(Config{APIKey: "sk-test", RateLimit: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, s.model)
}
