package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderLocal is the in-process hashing embedder.
	AIProviderLocal AIProvider = "local"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOllama, AIProviderOpenAI, AIProviderLocal:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Gemini (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderLocal:
		return "Local hashing embedder"
	default:
		return unknownDescription
	}
}

// AllLLMProviders returns providers that support text generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderGemini, AIProviderOllama, AIProviderOpenAI}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderLocal, AIProviderOllama, AIProviderOpenAI}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "gemini-2.0-flash",
		AIProviderOllama: "llama3.2",
		AIProviderOpenAI: "gpt-4o-mini",
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderLocal:  "hash-512",
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"hash-512":               512,
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
	}
}

// LLMSettings holds generation provider configuration.
type LLMSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string

	// Temperature and MaxTokens tune answer generation. Zero keeps the
	// provider default.
	Temperature float64
	MaxTokens   int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if l.Provider == AIProviderLocal || !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if e.Provider == AIProviderGemini || !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// IndexBackend selects the record index implementation.
type IndexBackend string

// Available index backends.
const (
	IndexBackendSQLite IndexBackend = "sqlite"
	IndexBackendMemory IndexBackend = "memory"
)

// IndexSettings holds record index configuration.
type IndexSettings struct {
	Backend IndexBackend

	// Path is the directory holding the persisted collection.
	Path string
}

// ExtractionMode selects how page text is pulled out of HTML.
type ExtractionMode string

// Available extraction modes.
const (
	// ExtractionText keeps all visible text outside boilerplate elements.
	ExtractionText ExtractionMode = "text"

	// ExtractionReadability keeps only the main article content.
	ExtractionReadability ExtractionMode = "readability"
)

// IsValid returns true if the extraction mode is recognised.
func (m ExtractionMode) IsValid() bool {
	return m == ExtractionText || m == ExtractionReadability
}

// CrawlSettings holds website crawl configuration.
type CrawlSettings struct {
	MaxPages          int
	Timeout           time.Duration
	RequestsPerSecond float64
	UserAgent         string
	Extraction        ExtractionMode
}

// QuerySettings holds retrieval configuration.
type QuerySettings struct {
	TopK int
}

// AppSettings holds all application settings.
type AppSettings struct {
	LLM       LLMSettings
	Embedding EmbeddingSettings
	Index     IndexSettings
	Crawl     CrawlSettings
	Query     QuerySettings

	// DataDir is where chat exports are read from by default.
	DataDir string

	// LogFile, when set, receives a copy of all log output.
	LogFile string
}

// Default values for settings.
const (
	DefaultMaxPages          = 10
	DefaultCrawlTimeout      = 10 * time.Second
	DefaultRequestsPerSecond = 2.0
	DefaultTopK              = 5
	DefaultUserAgent         = "bizassist/1.0 (+https://github.com/custodia-labs/bizassist)"
	MaxTemperature           = 2.0
)

// DefaultAppSettings returns settings with sensible defaults.
// The API key, index path and data dir have no defaults and must be supplied.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			Provider: AIProviderGemini,
			Model:    DefaultLLMModels()[AIProviderGemini],
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderLocal,
			Model:    DefaultEmbeddingModels()[AIProviderLocal],
		},
		Index: IndexSettings{
			Backend: IndexBackendSQLite,
		},
		Crawl: CrawlSettings{
			MaxPages:          DefaultMaxPages,
			Timeout:           DefaultCrawlTimeout,
			RequestsPerSecond: DefaultRequestsPerSecond,
			UserAgent:         DefaultUserAgent,
			Extraction:        ExtractionText,
		},
		Query: QuerySettings{
			TopK: DefaultTopK,
		},
	}
}

// Validate checks that everything needed to construct the core is present.
func (s AppSettings) Validate() error {
	if !s.LLM.Provider.IsValid() || s.LLM.Provider == AIProviderLocal {
		return fmt.Errorf("%w: unknown LLM provider %q", ErrInvalidInput, s.LLM.Provider)
	}
	if s.LLM.Provider.RequiresAPIKey() && s.LLM.APIKey == "" {
		return fmt.Errorf("%w: API key for %s", ErrMissingConfig, s.LLM.Provider)
	}
	if s.LLM.Temperature < 0 || s.LLM.Temperature > MaxTemperature {
		return fmt.Errorf("%w: temperature %.2f outside 0-%.0f", ErrInvalidInput, s.LLM.Temperature, MaxTemperature)
	}
	if s.LLM.MaxTokens < 0 {
		return fmt.Errorf("%w: max tokens must not be negative", ErrInvalidInput)
	}
	if !s.Embedding.Provider.IsValid() || s.Embedding.Provider == AIProviderGemini {
		return fmt.Errorf("%w: unknown embedding provider %q", ErrInvalidInput, s.Embedding.Provider)
	}
	if s.Embedding.Provider.RequiresAPIKey() && s.Embedding.APIKey == "" {
		return fmt.Errorf("%w: API key for %s embeddings", ErrMissingConfig, s.Embedding.Provider)
	}
	switch s.Index.Backend {
	case IndexBackendSQLite:
		if s.Index.Path == "" {
			return fmt.Errorf("%w: index path", ErrMissingConfig)
		}
	case IndexBackendMemory:
	default:
		return fmt.Errorf("%w: unknown index backend %q", ErrInvalidInput, s.Index.Backend)
	}
	if s.DataDir == "" {
		return fmt.Errorf("%w: data directory", ErrMissingConfig)
	}
	if !s.Crawl.Extraction.IsValid() {
		return fmt.Errorf("%w: unknown extraction mode %q", ErrInvalidInput, s.Crawl.Extraction)
	}
	return nil
}
