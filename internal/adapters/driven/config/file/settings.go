package file

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/custodia-labs/bizassist/internal/core/domain"
	"github.com/custodia-labs/bizassist/internal/core/ports/driven"
)

// Configuration keys understood by LoadSettings.
const (
	KeyLLMProvider       = "llm.provider"
	KeyLLMModel          = "llm.model"
	KeyLLMBaseURL        = "llm.base_url"
	KeyLLMAPIKey         = "llm.api_key"
	KeyLLMTemperature    = "llm.temperature"
	KeyLLMMaxTokens      = "llm.max_tokens"
	KeyEmbeddingProvider = "embedding.provider"
	KeyEmbeddingModel    = "embedding.model"
	KeyEmbeddingBaseURL  = "embedding.base_url"
	KeyEmbeddingAPIKey   = "embedding.api_key"
	KeyIndexBackend      = "index.backend"
	KeyIndexPath         = "index.path"
	KeyCrawlMaxPages     = "crawl.max_pages"
	KeyCrawlTimeout      = "crawl.timeout"
	KeyCrawlRate         = "crawl.requests_per_second"
	KeyCrawlUserAgent    = "crawl.user_agent"
	KeyCrawlExtraction   = "crawl.extraction"
	KeyQueryTopK         = "query.top_k"
	KeyDataDir           = "data_dir"
	KeyLogFile           = "log.file"
)

// Environment variables that override the config file.
const (
	EnvGeminiAPIKey      = "GEMINI_API_KEY"
	EnvOpenAIAPIKey      = "OPENAI_API_KEY"
	EnvIndexPath         = "INDEX_PATH"
	EnvDataDir           = "DATA_DIR"
	EnvLLMProvider       = "LLM_PROVIDER"
	EnvEmbeddingProvider = "EMBEDDING_PROVIDER"
)

// KeyKind describes how a setting value is parsed from text.
type KeyKind int

// Setting value kinds.
const (
	KindString KeyKind = iota
	KindInt
	KindFloat
	KindDuration
	KindSecret
)

var knownKeys = map[string]KeyKind{
	KeyLLMProvider:       KindString,
	KeyLLMModel:          KindString,
	KeyLLMBaseURL:        KindString,
	KeyLLMAPIKey:         KindSecret,
	KeyLLMTemperature:    KindFloat,
	KeyLLMMaxTokens:      KindInt,
	KeyEmbeddingProvider: KindString,
	KeyEmbeddingModel:    KindString,
	KeyEmbeddingBaseURL:  KindString,
	KeyEmbeddingAPIKey:   KindSecret,
	KeyIndexBackend:      KindString,
	KeyIndexPath:         KindString,
	KeyCrawlMaxPages:     KindInt,
	KeyCrawlTimeout:      KindDuration,
	KeyCrawlRate:         KindFloat,
	KeyCrawlUserAgent:    KindString,
	KeyCrawlExtraction:   KindString,
	KeyQueryTopK:         KindInt,
	KeyDataDir:           KindString,
	KeyLogFile:           KindString,
}

// KnownKeys returns every supported key, sorted.
func KnownKeys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// KindOf reports the value kind of key.
func KindOf(key string) (KeyKind, bool) {
	kind, ok := knownKeys[key]
	return kind, ok
}

// ParseValue converts raw text into the stored representation for key.
// Durations are validated and kept as strings.
func ParseValue(key, raw string) (any, error) {
	kind, ok := knownKeys[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	switch kind {
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		return int64(n), nil
	case KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		return f, nil
	case KindDuration:
		if _, err := time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("%w: %s must be a duration like 10s", domain.ErrInvalidInput, key)
		}
		return raw, nil
	default:
		return raw, nil
	}
}

// LoadSettings builds AppSettings from defaults, then the config store,
// then the environment. getenv may be nil to use os.Getenv.
// The result is not validated; call Validate on it.
func LoadSettings(store driven.ConfigStore, getenv func(string) string) domain.AppSettings {
	if getenv == nil {
		getenv = os.Getenv
	}
	s := domain.DefaultAppSettings()

	// LLM
	if p := firstNonEmpty(getenv(EnvLLMProvider), store.GetString(KeyLLMProvider)); p != "" {
		s.LLM.Provider = domain.AIProvider(p)
		s.LLM.Model = domain.DefaultLLMModels()[s.LLM.Provider]
	}
	if m := store.GetString(KeyLLMModel); m != "" {
		s.LLM.Model = m
	}
	s.LLM.BaseURL = store.GetString(KeyLLMBaseURL)
	s.LLM.APIKey = firstNonEmpty(envKeyFor(s.LLM.Provider, getenv), store.GetString(KeyLLMAPIKey))
	s.LLM.Temperature = store.GetFloat(KeyLLMTemperature)
	s.LLM.MaxTokens = store.GetInt(KeyLLMMaxTokens)

	// Embedding
	if p := firstNonEmpty(getenv(EnvEmbeddingProvider), store.GetString(KeyEmbeddingProvider)); p != "" {
		s.Embedding.Provider = domain.AIProvider(p)
		s.Embedding.Model = domain.DefaultEmbeddingModels()[s.Embedding.Provider]
	}
	if m := store.GetString(KeyEmbeddingModel); m != "" {
		s.Embedding.Model = m
	}
	s.Embedding.BaseURL = store.GetString(KeyEmbeddingBaseURL)
	s.Embedding.APIKey = firstNonEmpty(envKeyFor(s.Embedding.Provider, getenv), store.GetString(KeyEmbeddingAPIKey))

	// Index
	if b := store.GetString(KeyIndexBackend); b != "" {
		s.Index.Backend = domain.IndexBackend(b)
	}
	s.Index.Path = firstNonEmpty(getenv(EnvIndexPath), store.GetString(KeyIndexPath))

	// Crawl
	if n := store.GetInt(KeyCrawlMaxPages); n > 0 {
		s.Crawl.MaxPages = n
	}
	if d, err := time.ParseDuration(store.GetString(KeyCrawlTimeout)); err == nil && d > 0 {
		s.Crawl.Timeout = d
	}
	if _, ok := store.Get(KeyCrawlRate); ok {
		s.Crawl.RequestsPerSecond = store.GetFloat(KeyCrawlRate)
	}
	if ua := store.GetString(KeyCrawlUserAgent); ua != "" {
		s.Crawl.UserAgent = ua
	}
	if m := store.GetString(KeyCrawlExtraction); m != "" {
		s.Crawl.Extraction = domain.ExtractionMode(m)
	}

	// Query
	if k := store.GetInt(KeyQueryTopK); k > 0 {
		s.Query.TopK = k
	}

	s.DataDir = firstNonEmpty(getenv(EnvDataDir), store.GetString(KeyDataDir))
	s.LogFile = store.GetString(KeyLogFile)

	return s
}

// envKeyFor returns the API key environment value for a provider.
func envKeyFor(p domain.AIProvider, getenv func(string) string) string {
	switch p {
	case domain.AIProviderGemini:
		return getenv(EnvGeminiAPIKey)
	case domain.AIProviderOpenAI:
		return getenv(EnvOpenAIAPIKey)
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
