package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/voiceplan/gateway/internal/metrics"
)

// ChatClient produces a single chat completion from a system instruction and
// a user prompt.
type ChatClient interface {
	Chat(ctx context.Context, system, user string, opts ChatOptions) (string, error)
}

// ChatOptions tunes one chat completion.
type ChatOptions struct {
	Model       string
	Temperature float64
	// JSONObject requests structured output via response_format when the
	// provider supports it; providers that don't are still prompted for pure
	// JSON and decoded tolerantly.
	JSONObject bool
}

// OpenAIChatClient calls any OpenAI-compatible chat completions endpoint.
type OpenAIChatClient struct {
	client       openai.Client
	defaultModel string
	jsonMode     bool
}

// NewOpenAIChatClient creates a chat client for the given API key, base URL
// (empty for the OpenAI default) and default model. Zhipu-style bases reject
// the response_format parameter, so it is disabled for them.
func NewOpenAIChatClient(apiKey, baseURL, defaultModel string) (*OpenAIChatClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: llm api key is empty", ErrConfiguration)
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	return &OpenAIChatClient{
		client:       openai.NewClient(reqOpts...),
		defaultModel: defaultModel,
		jsonMode:     !strings.Contains(baseURL, "bigmodel.cn"),
	}, nil
}

// Chat sends one system+user exchange and returns the message content.
func (c *OpenAIChatClient) Chat(ctx context.Context, system, user string, opts ChatOptions) (string, error) {
	start := time.Now()

	model := opts.Model
	if model == "" {
		model = c.defaultModel
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(opts.Temperature),
	}
	if opts.JSONObject && c.jsonMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		metrics.Errors.WithLabelValues("llm", "http").Inc()
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		metrics.Errors.WithLabelValues("llm", "empty").Inc()
		return "", errors.New("model returned no content")
	}

	metrics.StageDuration.WithLabelValues("llm").Observe(time.Since(start).Seconds())
	return resp.Choices[0].Message.Content, nil
}
