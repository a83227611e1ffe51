package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bizassist/internal/core/domain"
)

func TestServices_CloseNil(t *testing.T) {
	s := &Services{}
	// Should not panic
	s.Close()
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.EmbeddingSettings
		wantModel   string
		wantErr     bool
		errContains string
	}{
		{
			name:     "nil settings",
			settings: nil,
			wantErr:  true,
		},
		{
			name:      "local provider",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderLocal, Model: "hash-512"},
			wantModel: "hash-512",
		},
		{
			name:      "ollama provider",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "nomic-embed-text"},
			wantModel: "nomic-embed-text",
		},
		{
			name: "openai provider",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
			wantModel: "text-embedding-3-small",
		},
		{
			name:     "openai without key",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI},
			wantErr:  true,
		},
		{
			name:        "gemini not available",
			settings:    &domain.EmbeddingSettings{Provider: domain.AIProviderGemini, APIKey: "k"},
			wantErr:     true,
			errContains: "not available for embeddings",
		},
		{
			name:        "unknown provider",
			settings:    &domain.EmbeddingSettings{Provider: "unknown"},
			wantErr:     true,
			errContains: "unsupported embedding provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, svc)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.LLMSettings
		wantModel   string
		wantErr     bool
		errContains string
	}{
		{
			name:     "nil settings",
			settings: nil,
			wantErr:  true,
		},
		{
			name:      "gemini provider",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderGemini, APIKey: "k", Model: "gemini-2.0-flash"},
			wantModel: "gemini-2.0-flash",
		},
		{
			name:     "gemini without key",
			settings: &domain.LLMSettings{Provider: domain.AIProviderGemini},
			wantErr:  true,
		},
		{
			name:      "ollama provider",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"},
			wantModel: "llama3.2",
		},
		{
			name:      "openai provider",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "gpt-4o-mini"},
			wantModel: "gpt-4o-mini",
		},
		{
			name:        "local cannot generate",
			settings:    &domain.LLMSettings{Provider: domain.AIProviderLocal},
			wantErr:     true,
			errContains: "only supports embeddings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			require.NotNil(t, svc)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestNewServices(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.LLM.APIKey = "test-key"

	svc, err := NewServices(settings)
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, "gemini-2.0-flash", svc.LLM.ModelName())
	assert.Equal(t, "hash-512", svc.Embedding.ModelName())
}

func TestNewServices_MissingKey(t *testing.T) {
	_, err := NewServices(domain.DefaultAppSettings())
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestNewServices_BadEmbedding(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.LLM.APIKey = "test-key"
	settings.Embedding.Provider = domain.AIProviderGemini

	_, err := NewServices(settings)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestValidateLLMConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	assert.NoError(t, ValidateLLMConfig(nil))
	assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{}))
	assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
	}))

	server.Close()
	assert.Error(t, ValidateLLMConfig(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
	}))
}

func TestValidateEmbeddingConfig(t *testing.T) {
	assert.NoError(t, ValidateEmbeddingConfig(nil))
	assert.NoError(t, ValidateEmbeddingConfig(&domain.EmbeddingSettings{Provider: domain.AIProviderLocal}))
	assert.NoError(t, ValidateEmbeddingConfig(&domain.EmbeddingSettings{Provider: domain.AIProviderGemini}))
}
