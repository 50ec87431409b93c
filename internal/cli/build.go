package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/sentinel-audit/sentinel/internal/cache"
	"github.com/sentinel-audit/sentinel/internal/imagery"
	"github.com/sentinel-audit/sentinel/internal/llm"
	"github.com/sentinel-audit/sentinel/internal/model"
	"github.com/sentinel-audit/sentinel/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags shared by the stage commands.
var (
	offline     bool
	imageryURL  string
	noCache     bool
	llmProvider string
	llmModel    string
	staticDir   string
	reportsDir  string
	httpProxy   string
	httpsProxy  string
)

// buildConfig assembles runtime configuration: defaults, then the config
// file and SENTINEL_* environment via viper, then explicit flags.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	applyViper(cfg)
	if imageryURL != "" {
		cfg.Imagery.BaseURL = imageryURL
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if staticDir != "" {
		cfg.Storage.StaticDir = staticDir
	}
	if reportsDir != "" {
		cfg.Storage.ReportsDir = reportsDir
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	cfg.Output.Verbose = verbose
	return cfg
}

// applyViper layers config-file and environment values over the defaults.
// Keys follow the yaml shape written by "config init".
func applyViper(cfg *model.Config) {
	if v := viper.GetString("imagery.base_url"); v != "" {
		cfg.Imagery.BaseURL = v
	}
	if v := viper.GetString("llm.provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("storage.static_dir"); v != "" {
		cfg.Storage.StaticDir = v
	}
	if v := viper.GetString("storage.reports_dir"); v != "" {
		cfg.Storage.ReportsDir = v
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}
	if viper.IsSet("concurrency.workers") {
		cfg.Concurrency.Workers = viper.GetInt("concurrency.workers")
	}
}

// resolveAPIKey loads the provider's API key from the environment.
func resolveAPIKey(cfg *model.Config) error {
	switch cfg.LLM.Provider {
	case "gemini", "google":
		cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("GOOGLE_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}
	return nil
}

// buildBackend selects the imagery backend: the deterministic simulator in
// offline mode, otherwise the HTTP gateway client with an optional cache in
// front of it.
func buildBackend(cfg *model.Config) (imagery.Backend, error) {
	if offline {
		return imagery.NewSimulator(), nil
	}
	if cfg.Imagery.BaseURL == "" {
		return nil, fmt.Errorf("no imagery backend configured: set --imagery-url or SENTINEL_IMAGERY_URL, or pass --offline")
	}

	var opts []imagery.ClientOption
	if httpProxy != "" || httpsProxy != "" {
		opts = append(opts, imagery.WithProxy(httpProxy, httpsProxy))
	}

	var backend imagery.Backend = imagery.NewClient(
		cfg.Imagery.BaseURL,
		cfg.Imagery.Timeout,
		cfg.Imagery.RequestsPerSecond,
		cfg.Imagery.BurstSize,
		opts...,
	)

	if cfg.Cache.Enabled {
		layered := cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		backend = imagery.NewCachedBackend(backend, layered, cfg.Cache.TTL)
	}
	return backend, nil
}

// buildAuditor wires the full pipeline. withLLM controls whether extraction
// is usable; commands that stop at redaction skip the provider entirely.
// withBackend controls whether a live imagery backend must be configured;
// commands that never reach verification fall back to the simulator.
func buildAuditor(ctx context.Context, cfg *model.Config, withLLM, withBackend bool) (*pipeline.Auditor, error) {
	var provider llm.Provider
	if withLLM {
		if err := resolveAPIKey(cfg); err != nil {
			return nil, err
		}
		p, err := llm.NewProvider(ctx, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("create LLM provider: %w", err)
		}
		provider = p
	}

	var backend imagery.Backend = imagery.NewSimulator()
	if withBackend {
		b, err := buildBackend(cfg)
		if err != nil {
			return nil, err
		}
		backend = b
	}

	return pipeline.NewAuditor(cfg, provider, backend), nil
}

// addBackendFlags registers the backend-selection flags shared by the
// imagery-touching commands.
func addBackendFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&offline, "offline", false, "use the deterministic imagery simulator instead of a live backend")
	cmd.Flags().StringVar(&imageryURL, "imagery-url", "", "base URL of the imagery statistics gateway")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the imagery response cache")
	cmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

// addLLMFlags registers the extraction provider flags.
func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (gemini, openai)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}
