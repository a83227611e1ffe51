package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/custodia-labs/bizassist/internal/adapters/driven/config/file"
	"github.com/custodia-labs/bizassist/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bizassist/internal/core/domain"
	"github.com/custodia-labs/bizassist/internal/core/ports/driven"
)

// mockHost is a mock implementation of driving.Host.
type mockHost struct {
	mu sync.Mutex

	ingestResult domain.IngestResult
	answer       domain.Answer
	health       domain.HealthReport
	err          error

	ingested []string
	queries  []string
}

func (m *mockHost) Ingest(_ context.Context, st domain.SourceType, path string) (domain.IngestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingested = append(m.ingested, string(st)+" "+path)
	return m.ingestResult, m.err
}

func (m *mockHost) Query(_ context.Context, text string) (domain.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, text)
	return m.answer, m.err
}

func (m *mockHost) Health(_ context.Context) domain.HealthReport {
	return m.health
}

// testRuntime captures what a command asked the factory for.
type testRuntime struct {
	opts   Options
	store  driven.ConfigStore
	closed bool
}

// setupTestRuntime installs a memory config store and a factory returning host.
// Package state is restored when the test ends.
func setupTestRuntime(t *testing.T, host *mockHost) (*testRuntime, *memory.ConfigStore) {
	t.Helper()

	for _, env := range []string{
		file.EnvGeminiAPIKey, file.EnvOpenAIAPIKey, file.EnvIndexPath,
		file.EnvDataDir, file.EnvLLMProvider, file.EnvEmbeddingProvider,
	} {
		t.Setenv(env, "")
	}

	store := memory.NewConfigStore()
	tr := &testRuntime{}

	prevStore, prevFactory, prevValidator := configStore, runtimeFactory, aiValidator
	configStore = store
	runtimeFactory = func(_ context.Context, s driven.ConfigStore, opts Options) (*Runtime, error) {
		tr.opts = opts
		tr.store = s
		return &Runtime{
			Host:     host,
			Settings: domain.AppSettings{DataDir: t.TempDir()},
			Close: func() error {
				tr.closed = true
				return nil
			},
		}, nil
	}

	t.Cleanup(func() {
		configStore, runtimeFactory, aiValidator = prevStore, prevFactory, prevValidator
		resetFlags()
	})
	return tr, store
}

func resetFlags() {
	verbose = false
	ingestMaxPages = 0
	ingestMode = ""
	ingestOutput = formatText
	queryTopK = 0
	queryOutput = formatText
	healthOutput = formatText
	watchDir = ""
}

// executeCommand runs the root command with args and returns combined output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
