package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/bizassist/internal/core/domain"
	"github.com/custodia-labs/bizassist/internal/core/ports/driven"
)

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
	options  []driven.GenerateOptions
	block    bool
	panicMsg string
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.options = append(m.options, opts)
	m.mu.Unlock()
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return m.err }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// mockIndex implements driven.RecordIndex for testing.
type mockIndex struct {
	results   []domain.RetrievalResult
	upsertErr error
	searchErr error
	statsErr  error
	total     int
	blockStat bool

	ids       []string
	texts     []string
	metadatas []domain.Metadata
	lastK     int
	lastQuery string
}

func (m *mockIndex) Upsert(_ context.Context, ids, texts []string, metadatas []domain.Metadata) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.ids = append(m.ids, ids...)
	m.texts = append(m.texts, texts...)
	m.metadatas = append(m.metadatas, metadatas...)
	m.total += len(ids)
	return nil
}

func (m *mockIndex) Search(_ context.Context, queryText string, k int) ([]domain.RetrievalResult, error) {
	m.lastQuery = queryText
	m.lastK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results, nil
}

func (m *mockIndex) Stats(ctx context.Context) (domain.IndexStats, error) {
	if m.blockStat {
		<-ctx.Done()
		return domain.IndexStats{}, ctx.Err()
	}
	if m.statsErr != nil {
		return domain.IndexStats{}, m.statsErr
	}
	return domain.IndexStats{TotalDocuments: m.total}, nil
}

func (m *mockIndex) Close() error { return nil }

// mockNormaliser implements driven.Normaliser for testing.
type mockNormaliser struct {
	source   domain.SourceType
	records  []domain.Record
	err      error
	panicMsg string
	lastPath string
}

func (m *mockNormaliser) SourceType() domain.SourceType { return m.source }

func (m *mockNormaliser) Normalise(_ context.Context, path string) ([]domain.Record, error) {
	m.lastPath = path
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	return m.records, m.err
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

func result(source, path, text string, distance float64) domain.RetrievalResult {
	md := domain.Metadata{domain.MetaSource: source}
	if path != "" {
		md[domain.MetaPath] = path
	}
	return domain.RetrievalResult{
		Record:   domain.Record{ID: text, Text: text, Metadata: md},
		Distance: distance,
	}
}
