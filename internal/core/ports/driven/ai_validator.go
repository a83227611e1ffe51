package driven

import "github.com/custodia-labs/bizassist/internal/core/domain"

// AIConfigValidator checks AI provider settings against the live provider.
// Used by the settings command before a change is saved.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider.
	// Returns nil if the settings are valid or not configured.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM pings the LLM provider.
	// Returns nil if the settings are valid or not configured.
	ValidateLLM(config *domain.LLMSettings) error
}
