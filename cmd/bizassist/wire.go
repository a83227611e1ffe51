package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/bizassist/internal/adapters/driven/ai"
	"github.com/custodia-labs/bizassist/internal/adapters/driven/config/file"
	"github.com/custodia-labs/bizassist/internal/adapters/driven/fetcher"
	"github.com/custodia-labs/bizassist/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bizassist/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/bizassist/internal/adapters/driving/cli"
	"github.com/custodia-labs/bizassist/internal/core/domain"
	"github.com/custodia-labs/bizassist/internal/core/ports/driven"
	"github.com/custodia-labs/bizassist/internal/core/services"
	"github.com/custodia-labs/bizassist/internal/logger"
	"github.com/custodia-labs/bizassist/internal/normalisers/chat"
	"github.com/custodia-labs/bizassist/internal/normalisers/website"
)

// buildRuntime loads and validates settings, then wires the host.
func buildRuntime(_ context.Context, store driven.ConfigStore, opts cli.Options) (*cli.Runtime, error) {
	settings := file.LoadSettings(store, nil)
	applyOptions(&settings, opts)

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w (see 'bizassist settings show')", err)
	}

	if settings.LogFile != "" {
		if err := logger.SetLogFile(settings.LogFile); err != nil {
			logger.Warn("File logging disabled: %v", err)
		}
	}

	aiServices, err := ai.NewServices(settings)
	if err != nil {
		return nil, err
	}

	index, err := openIndex(settings.Index, aiServices.Embedding)
	if err != nil {
		aiServices.Close()
		return nil, err
	}

	prompts, err := file.NewPromptStore(promptDir(store))
	if err != nil {
		index.Close()
		aiServices.Close()
		return nil, fmt.Errorf("open prompts: %w", err)
	}

	fetch := fetcher.New(fetcher.Config{
		Timeout:           settings.Crawl.Timeout,
		RequestsPerSecond: settings.Crawl.RequestsPerSecond,
		UserAgent:         settings.Crawl.UserAgent,
	})

	normalisers := []driven.Normaliser{
		website.New(fetch,
			website.WithMaxPages(settings.Crawl.MaxPages),
			website.WithExtractionMode(settings.Crawl.Extraction),
		),
		chat.New(),
	}

	host := services.NewHost(index, aiServices.LLM, normalisers,
		services.WithTopK(settings.Query.TopK),
		services.WithPromptStore(prompts),
		services.WithGenerateOptions(driven.GenerateOptions{
			MaxTokens:   settings.LLM.MaxTokens,
			Temperature: settings.LLM.Temperature,
		}),
	)

	return &cli.Runtime{
		Host:     host,
		Settings: settings,
		Close: func() error {
			err := index.Close()
			aiServices.Close()
			return errors.Join(err, logger.SetLogFile(""))
		},
	}, nil
}

func applyOptions(s *domain.AppSettings, opts cli.Options) {
	if opts.MaxPages > 0 {
		s.Crawl.MaxPages = opts.MaxPages
	}
	if opts.Extraction != "" {
		s.Crawl.Extraction = opts.Extraction
	}
	if opts.TopK > 0 {
		s.Query.TopK = opts.TopK
	}
}

func openIndex(s domain.IndexSettings, embedder driven.EmbeddingService) (driven.RecordIndex, error) {
	switch s.Backend {
	case domain.IndexBackendMemory:
		return memory.NewIndex(embedder), nil
	default:
		index, err := sqlite.NewIndex(s.Path, embedder)
		if err != nil {
			return nil, fmt.Errorf("open index: %w", err)
		}
		return index, nil
	}
}

// promptDir keeps prompts next to the config file. An in-memory store
// falls back to the default directory.
func promptDir(store driven.ConfigStore) string {
	path := store.Path()
	if path == "" || path == ":memory:" {
		return ""
	}
	return filepath.Join(filepath.Dir(path), "prompts")
}
