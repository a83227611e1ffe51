package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bizassist/internal/adapters/driven/config/file"
	"github.com/custodia-labs/bizassist/internal/adapters/driving/cli"
	"github.com/custodia-labs/bizassist/internal/core/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{
		file.EnvGeminiAPIKey, file.EnvOpenAIAPIKey, file.EnvIndexPath,
		file.EnvDataDir, file.EnvLLMProvider, file.EnvEmbeddingProvider,
	} {
		t.Setenv(env, "")
	}
}

func TestBuildRuntime_MissingConfig(t *testing.T) {
	clearEnv(t)
	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, err = buildRuntime(context.Background(), store, cli.Options{})

	assert.ErrorIs(t, err, domain.ErrMissingConfig)
}

func TestBuildRuntime_IngestsChatIntoSQLite(t *testing.T) {
	clearEnv(t)
	configDir := t.TempDir()
	indexDir := filepath.Join(t.TempDir(), "index")
	dataDir := t.TempDir()

	store, err := file.NewConfigStore(configDir)
	require.NoError(t, err)
	require.NoError(t, store.Set(file.KeyLLMProvider, "ollama"))
	require.NoError(t, store.Set(file.KeyLLMBaseURL, "http://127.0.0.1:1"))
	require.NoError(t, store.Set(file.KeyIndexPath, indexDir))
	require.NoError(t, store.Set(file.KeyDataDir, dataDir))

	rt, err := buildRuntime(context.Background(), store, cli.Options{TopK: 2})
	require.NoError(t, err)
	defer func() { assert.NoError(t, rt.Close()) }()

	assert.Equal(t, 2, rt.Settings.Query.TopK)
	assert.Equal(t, dataDir, rt.Settings.DataDir)

	chatFile := filepath.Join(dataDir, "chat.txt")
	content := "[12/05/23, 14:30] - Alice: Meeting moved to 3pm\nPlease confirm\n" +
		"[12/05/23, 14:31] - Bob: Confirmed, see you there\n"
	require.NoError(t, os.WriteFile(chatFile, []byte(content), 0o600))

	res, err := rt.Host.Ingest(context.Background(), domain.SourceWhatsApp, chatFile)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestSuccess, res.Status)
	assert.Equal(t, 2, res.DocumentsProcessed)
	assert.Equal(t, 2, res.TotalDocuments)

	_, err = os.Stat(filepath.Join(indexDir, "records.db"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(configDir, "prompts", "answer.txt"))
	assert.NoError(t, err, "prompts live next to the config file")
}

func TestBuildRuntime_MemoryBackend(t *testing.T) {
	clearEnv(t)
	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set(file.KeyLLMProvider, "ollama"))
	require.NoError(t, store.Set(file.KeyLLMBaseURL, "http://127.0.0.1:1"))
	require.NoError(t, store.Set(file.KeyIndexBackend, "memory"))
	require.NoError(t, store.Set(file.KeyDataDir, t.TempDir()))

	rt, err := buildRuntime(context.Background(), store, cli.Options{MaxPages: 3, Extraction: domain.ExtractionReadability})
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, 3, rt.Settings.Crawl.MaxPages)
	assert.Equal(t, domain.ExtractionReadability, rt.Settings.Crawl.Extraction)

	report := rt.Host.Health(context.Background())
	assert.True(t, report.VectorStore)
	assert.False(t, report.LLM, "nothing listens on port 1")
	assert.False(t, report.Overall)
}

func TestApplyOptions(t *testing.T) {
	s := domain.DefaultAppSettings()
	applyOptions(&s, cli.Options{})
	assert.Equal(t, domain.DefaultAppSettings(), s)
}

func TestPromptDir(t *testing.T) {
	dir := t.TempDir()
	store, err := file.NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "prompts"), promptDir(store))
}
