package generator

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
// The SDK client is built once and shared by every call.
type OpenAILLM struct {
	Model       string
	provider    string
	temperature *float64
	client      openai.Client
}

func NewOpenAILLMFromConfig(cfg *LLMSettings, extra ...option.RequestOption) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}
	// 不做自动重试，失败原样返回给调用方。
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, extra...)
	return &OpenAILLM{
		Model:       model,
		provider:    provider,
		temperature: cfg.Temperature,
		client:      openai.NewClient(opts...),
	}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
	}
	if o.temperature != nil {
		params.Temperature = openai.Float(*o.temperature)
	}
	if prompt.ExpectJSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		te := &TransportError{Provider: o.provider, Err: err}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			te.StatusCode = apiErr.StatusCode
		}
		return "", te
	}
	if len(resp.Choices) == 0 {
		return "", &TransportError{Provider: o.provider, Err: errors.New("empty choices")}
	}
	return resp.Choices[0].Message.Content, nil
}
