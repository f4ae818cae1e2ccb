package generator

import "context"

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature *float64
}

// DefaultModel is used by the openai provider when no model is configured.
const DefaultModel = "gpt-4o-mini"

// DefaultGeminiModel is used by the gemini provider when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"
