package generator

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Agent 负责一次完整的生成流程：构建提示词 → 调用模型 → 解析结果。
// Agent holds no per-request state and is safe for concurrent use.
type Agent struct {
	llm    LLMClient
	mode   Mode
	model  string
	logger zerolog.Logger
}

func NewAgent(llm LLMClient, mode Mode, model string, logger zerolog.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &Agent{llm: llm, mode: mode, model: model, logger: logger}, nil
}

// Mode is the configured prompt/interpreter pair.
func (a *Agent) Mode() Mode { return a.mode }

// Model is the model identifier reported alongside results.
func (a *Agent) Model() string { return a.model }

// Generate returns a non-nil error only when the model call itself fails;
// parse problems are reported inside Result.
func (a *Agent) Generate(ctx context.Context, req CreativeRequest) (Result, error) {
	prompt := BuildPrompt(req, a.mode)
	log := a.logger.With().
		Str("mode", a.mode.String()).
		Str("model", a.model).
		Str("channel", string(req.Channel)).
		Int("variations", req.VariationCount).
		Logger()
	log.Debug().Int("prompt_bytes", len(prompt.System)+len(prompt.User)).Msg("calling model")

	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("model call failed")
		return Result{}, err
	}

	res := Interpret(raw, a.mode)
	if res.Err != nil {
		log.Warn().Str("kind", res.Err.Kind.String()).Err(res.Err).Int("raw_bytes", len(raw)).Msg("could not parse model output, falling back to raw text")
	} else {
		log.Info().Int("returned", len(res.Variations)).Msg("creatives generated")
	}
	return res, nil
}
