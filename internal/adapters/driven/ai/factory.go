// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	ollamaembed "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// SettingsFromConfig reads provider settings from the config store.
// API keys fall back to the conventional environment variables so they
// never have to live in the config file.
func SettingsFromConfig(cfg driven.ConfigStore) (domain.EmbeddingSettings, domain.GenerationSettings) {
	embedding := domain.EmbeddingSettings{
		Provider: domain.AIProvider(cfg.GetString("embedding.provider")),
		Model:    cfg.GetString("embedding.model"),
		BaseURL:  cfg.GetString("embedding.base_url"),
		APIKey:   cfg.GetString("embedding.api_key"),
	}
	generation := domain.GenerationSettings{
		Provider: domain.AIProvider(cfg.GetString("llm.provider")),
		Model:    cfg.GetString("llm.model"),
		BaseURL:  cfg.GetString("llm.base_url"),
		APIKey:   cfg.GetString("llm.api_key"),
	}

	if embedding.APIKey == "" && embedding.Provider == domain.AIProviderOpenAI {
		embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	switch {
	case generation.APIKey != "":
	case generation.Provider == domain.AIProviderOpenAI:
		generation.APIKey = os.Getenv("OPENAI_API_KEY")
	case generation.Provider == domain.AIProviderAnthropic:
		generation.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	return embedding, generation
}

// AnswerSettingsFromConfig reads retrieval behaviour from the config store,
// falling back to defaults for unset keys.
func AnswerSettingsFromConfig(cfg driven.ConfigStore) domain.AnswerSettings {
	return domain.AnswerSettings{
		TopK:          cfg.GetInt("answer.top_k"),
		MinSimilarity: cfg.GetFloat("answer.min_similarity"),
	}.WithDefaults()
}

// CreateAndValidateEmbeddingService creates an embedding service and
// validates connectivity. Returns an error with guidance on failure.
func CreateAndValidateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'askdocs config' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'askdocs config' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateGenerationService creates a generation service and
// validates connectivity. Returns an error with guidance on failure.
func CreateAndValidateGenerationService(settings domain.GenerationSettings) (driven.GenerationService, error) {
	svc, err := CreateGenerationService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'askdocs config' to fix",
			domain.ErrGenerationUnavailable, err)
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'askdocs config' to fix",
			domain.ErrGenerationUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// An unconfigured provider defaults to local Ollama.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings.Provider == "" {
		settings.Provider = domain.AIProviderOllama
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("embedding provider %q is not configured", settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateGenerationService creates the appropriate generation service based on settings.
// An unconfigured provider defaults to local Ollama.
func CreateGenerationService(settings domain.GenerationSettings) (driven.GenerationService, error) {
	if settings.Provider == "" {
		settings.Provider = domain.AIProviderOllama
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("generation provider %q is not configured", settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewGenerationService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewGenerationService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewGenerationService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", settings.Provider)
	}
}
