package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/askpanel/panel/config"
	"github.com/askpanel/panel/internal/observability"
	"github.com/askpanel/panel/services/ask"
	"github.com/askpanel/panel/services/providers"
	"github.com/askpanel/panel/services/providers/anthropic"
	"github.com/askpanel/panel/services/providers/deepseek"
	"github.com/askpanel/panel/services/providers/gemini"
	"github.com/askpanel/panel/services/providers/openai"
	"github.com/askpanel/panel/utils"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Observability
	Metrics      *observability.Metrics
	PromRegistry *prometheus.Registry

	// Providers
	Registry *providers.Registry
	Invoker  *providers.Invoker

	// Services
	AskService *ask.Service
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	deps.initObservability()

	if err := deps.initProviders(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	deps.initServices(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initObservability creates the metrics collectors on a dedicated registry
func (d *Dependencies) initObservability() {
	registry := prometheus.NewRegistry()

	d.PromRegistry = registry
	d.Metrics = observability.NewMetrics(registry)
}

// initProviders builds the four provider adapters and registers them.
// Registration order determines the order of responses in ask results.
func (d *Dependencies) initProviders(cfg *config.Config) error {
	registry := providers.NewRegistry()

	adapters := []providers.Adapter{
		openai.NewOpenAIAdapter(providers.Config{
			BaseURL: cfg.Providers.OpenAI.BaseURL,
			Model:   cfg.Providers.OpenAI.Model,
		}),
		anthropic.NewAnthropicAdapter(providers.Config{
			BaseURL: cfg.Providers.Anthropic.BaseURL,
			Model:   cfg.Providers.Anthropic.Model,
		}),
		gemini.NewGeminiAdapter(providers.Config{
			BaseURL: cfg.Providers.Gemini.BaseURL,
			Model:   cfg.Providers.Gemini.Model,
		}),
		deepseek.NewDeepSeekAdapter(providers.Config{
			BaseURL: cfg.Providers.DeepSeek.BaseURL,
			Model:   cfg.Providers.DeepSeek.Model,
		}),
	}

	for _, adapter := range adapters {
		if err := utils.ValidateStruct(adapter.Config()); err != nil {
			return fmt.Errorf("provider %s has invalid configuration: %w", adapter.Name(), err)
		}
		if err := registry.Register(adapter); err != nil {
			return fmt.Errorf("failed to register provider %s: %w", adapter.Name(), err)
		}
		d.Logger.Info("registered provider",
			zap.String("provider", adapter.Name()),
			zap.String("model", adapter.Config().Model))
	}

	d.Registry = registry
	return nil
}

// initServices wires the invoker and the ask fan-out service
func (d *Dependencies) initServices(cfg *config.Config) {
	defaultKeys := cfg.Providers.DefaultKeys()
	if len(defaultKeys) == 0 {
		d.Logger.Warn("no default provider credentials configured, callers must supply api_keys")
	} else {
		d.Logger.Info("default provider credentials loaded",
			zap.Int("providers_with_keys", len(defaultKeys)))
	}

	d.Invoker = providers.NewInvoker(cfg.Providers.RequestTimeout, d.Logger, d.Metrics)
	d.AskService = ask.NewService(d.Registry, d.Invoker, defaultKeys, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	return nil
}
