// Package embedding provides factory functions for creating embedding
// service adapters from settings.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/makerlens/makerlens-cli/internal/adapters/driven/embedding/huggingface"
	"github.com/makerlens/makerlens-cli/internal/adapters/driven/embedding/ollama"
	"github.com/makerlens/makerlens-cli/internal/adapters/driven/embedding/openai"
	"github.com/makerlens/makerlens-cli/internal/core/domain"
	"github.com/makerlens/makerlens-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// NewService creates the embedding service selected by the settings.
func NewService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.ProviderHuggingFace, "":
		return huggingface.NewEmbeddingService(huggingface.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.ProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.ProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// NewValidatedService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func NewValidatedService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := NewService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%v)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}
