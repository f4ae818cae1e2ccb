// Package config loads the service configuration from a JSON file, .env files
// and environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"ai_creative_builder/generator"
)

const (
	DefaultServerAddr = ":8080"
	DefaultAPIKeyEnv  = "OPENAI_API_KEY"
	GeminiAPIKeyEnv   = "GEMINI_API_KEY"
)

// Config holds everything the binary needs at startup.
type Config struct {
	AppEnv      string     `json:"app_env,omitempty"`
	ServerAddr  string     `json:"server_addr,omitempty"`
	Mode        string     `json:"mode,omitempty"`
	Variations  int        `json:"variations,omitempty"`
	PresetsFile string     `json:"presets_file,omitempty"`
	LLM         *LLMConfig `json:"llm,omitempty"`
}

// LLMConfig 模型配置。密钥不写在文件里，只记录环境变量名。
type LLMConfig struct {
	Provider    string   `json:"provider,omitempty"`
	Model       string   `json:"model,omitempty"`
	APIKeyEnv   string   `json:"api_key_env,omitempty"`
	BaseURL     string   `json:"base_url,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// Default is the configuration used when no file exists.
func Default() Config {
	return Config{
		AppEnv:     "production",
		ServerAddr: DefaultServerAddr,
		Mode:       generator.ModeStructured.String(),
		Variations: generator.DefaultVariationCount,
		LLM:        &LLMConfig{Provider: "openai"},
	}
}

// LoadConfig reads .env files, then the JSON file at path (a missing file is
// not an error), then applies environment overrides.
func LoadConfig(path string) (Config, error) {
	// 不存在的 .env 文件直接忽略。
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, err
		default:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	cfg.applyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if c.LLM == nil {
		c.LLM = &LLMConfig{}
	}
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.AppEnv, "APP_ENV")
	set(&c.ServerAddr, "SERVER_ADDR")
	set(&c.Mode, "CREATIVE_MODE")
	set(&c.PresetsFile, "PRESETS_FILE")
	set(&c.LLM.Provider, "LLM_PROVIDER")
	set(&c.LLM.Model, "LLM_MODEL")
	set(&c.LLM.BaseURL, "LLM_BASE_URL")
}

func (c *Config) fillDefaults() {
	if c.ServerAddr == "" {
		c.ServerAddr = DefaultServerAddr
	}
	if c.Variations == 0 {
		c.Variations = generator.DefaultVariationCount
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	gemini := c.LLM.Provider == "gemini"
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = DefaultAPIKeyEnv
		if gemini {
			c.LLM.APIKeyEnv = GeminiAPIKeyEnv
		}
	}
	if c.LLM.Model == "" {
		c.LLM.Model = generator.DefaultModel
		if gemini {
			c.LLM.Model = generator.DefaultGeminiModel
		}
	}
}

// Validate checks values that would otherwise fail later at request time.
func (c Config) Validate() error {
	if _, err := generator.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Variations < 1 {
		return fmt.Errorf("variations must be at least 1, got %d", c.Variations)
	}
	if c.LLM != nil && c.LLM.Temperature != nil {
		if t := *c.LLM.Temperature; t < 0 || t > 2 {
			return fmt.Errorf("llm.temperature must be within [0,2], got %v", t)
		}
	}
	return nil
}

// ParsedMode returns the configured mode; Validate has already checked it.
func (c Config) ParsedMode() generator.Mode {
	m, _ := generator.ParseMode(c.Mode)
	return m
}

// Development reports whether debug-friendly defaults should be used.
func (c Config) Development() bool {
	return strings.EqualFold(c.AppEnv, "development") || strings.EqualFold(c.AppEnv, "dev")
}

// LLMSettings resolves the credential from the environment. It returns
// generator.ErrMissingCredential when the variable is unset or blank.
func (c Config) LLMSettings() (*generator.LLMSettings, error) {
	llm := c.LLM
	if llm == nil {
		d := Default()
		d.fillDefaults()
		llm = d.LLM
	}
	key := strings.TrimSpace(os.Getenv(llm.APIKeyEnv))
	if key == "" {
		return nil, fmt.Errorf("%w (set %s)", generator.ErrMissingCredential, llm.APIKeyEnv)
	}
	return &generator.LLMSettings{
		Provider:    llm.Provider,
		Model:       llm.Model,
		APIKey:      key,
		BaseURL:     llm.BaseURL,
		Temperature: llm.Temperature,
	}, nil
}
