package embedding

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
)

func TestNewServiceDefaultsToHuggingFace(t *testing.T) {
	svc, err := NewService(domain.EmbeddingSettings{})
	require.NoError(t, err)
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", svc.ModelName())
	assert.Equal(t, 384, svc.Dimensions())
}

func TestNewServiceOpenAIRequiresKey(t *testing.T) {
	_, err := NewService(domain.EmbeddingSettings{Provider: domain.ProviderOpenAI})
	assert.Error(t, err)

	svc, err := NewService(domain.EmbeddingSettings{
		Provider: domain.ProviderOpenAI,
		APIKey:   "sk-test",
	})
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", svc.ModelName())
}

func TestNewServiceOllama(t *testing.T) {
	svc, err := NewService(domain.EmbeddingSettings{Provider: domain.ProviderOllama})
	require.NoError(t, err)
	assert.Equal(t, "all-minilm", svc.ModelName())
}

func TestNewServiceUnknownProvider(t *testing.T) {
	_, err := NewService(domain.EmbeddingSettings{Provider: "cohere"})
	assert.Error(t, err)
}

func TestNewValidatedServiceReachableProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc, err := NewValidatedService(domain.EmbeddingSettings{
		Provider: domain.ProviderHuggingFace,
		BaseURL:  server.URL,
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.NoError(t, svc.Close())
}

func TestNewValidatedServiceUnreachableProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := NewValidatedService(domain.EmbeddingSettings{
		Provider: domain.ProviderHuggingFace,
		BaseURL:  server.URL,
	})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestNewValidatedServiceUnknownProvider(t *testing.T) {
	_, err := NewValidatedService(domain.EmbeddingSettings{Provider: "cohere"})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}
