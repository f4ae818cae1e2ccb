package generator

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiLLM implements LLMClient on top of google.golang.org/genai.
type GeminiLLM struct {
	Model       string
	temperature *float64
	client      *genai.Client
}

func NewGeminiLLMFromConfig(ctx context.Context, cfg *LLMSettings) (*GeminiLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}
	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiLLM{Model: model, temperature: cfg.Temperature, client: client}, nil
}

func (g *GeminiLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	gc := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
	}
	if g.temperature != nil {
		gc.Temperature = genai.Ptr(float32(*g.temperature))
	}
	if prompt.ExpectJSON {
		gc.ResponseMIMEType = "application/json"
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.Model, genai.Text(prompt.User), gc)
	if err != nil {
		te := &TransportError{Provider: "gemini", Err: err}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			te.StatusCode = apiErr.Code
		}
		return "", te
	}
	text := resp.Text()
	if text == "" {
		return "", &TransportError{Provider: "gemini", Err: errors.New("empty candidates")}
	}
	return text, nil
}
