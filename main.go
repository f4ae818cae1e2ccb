package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ai_creative_builder/config"
	"ai_creative_builder/generator"
	"ai_creative_builder/logging"
	"ai_creative_builder/presets"
	"ai_creative_builder/server"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "creative",
		Short:         "Generate ad creatives with a hosted language model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "config/config.json", "path to config.json")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logs")
	root.AddCommand(newServeCmd(opts), newGenerateCmd(opts), newPresetsCmd(opts))
	return root
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			logger := logging.New(cfg.AppEnv, opts.verbose)
			table, err := presets.Load(cfg.PresetsFile)
			if err != nil {
				return err
			}
			agent, agentErr := buildAgent(cmd.Context(), cfg, logger)
			if agentErr != nil {
				if !errors.Is(agentErr, generator.ErrMissingCredential) {
					return agentErr
				}
				// 没有密钥也照常启动，表单提交时再提示。
				logger.Warn().Err(agentErr).Msg("model credential missing; generation is disabled")
			}
			srv, err := server.New(agent, agentErr, table, cfg.Variations, logger)
			if err != nil {
				return err
			}

			listen := cfg.ServerAddr
			if addr != "" {
				listen = addr
			}
			httpServer := &http.Server{
				Addr:              listen,
				Handler:           srv.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", listen).Msg("starting web server")
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("failed to shutdown server")
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "http listen address (overrides config.server_addr)")
	return cmd
}

func buildAgent(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*generator.Agent, error) {
	llm, model, err := buildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return generator.NewAgent(llm, cfg.ParsedMode(), model, logger)
}

func buildLLM(ctx context.Context, cfg config.Config) (generator.LLMClient, string, error) {
	if cfg.LLM == nil || cfg.LLM.Provider == "" {
		return nil, "", fmt.Errorf("llm config missing; please set llm.provider/model/api_key_env in config")
	}
	if cfg.LLM.Provider == "mock" {
		return generator.MockLLM{Variations: cfg.Variations}, "mock", nil
	}
	settings, err := cfg.LLMSettings()
	if err != nil {
		return nil, "", err
	}
	switch cfg.LLM.Provider {
	case "openai":
		llm, err := generator.NewOpenAILLMFromConfig(settings)
		if err != nil {
			return nil, "", err
		}
		return llm, llm.Model, nil
	case "deepseek":
		// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url（例如官方/网关地址）。
		if settings.BaseURL == "" {
			return nil, "", fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		llm, err := generator.NewOpenAILLMFromConfig(settings)
		if err != nil {
			return nil, "", err
		}
		return llm, llm.Model, nil
	case "gemini":
		llm, err := generator.NewGeminiLLMFromConfig(ctx, settings)
		if err != nil {
			return nil, "", err
		}
		return llm, llm.Model, nil
	default:
		return nil, "", fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}
