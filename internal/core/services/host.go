package services

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/custodia-labs/bizassist/internal/core/domain"
	"github.com/custodia-labs/bizassist/internal/core/ports/driven"
	"github.com/custodia-labs/bizassist/internal/core/ports/driving"
	"github.com/custodia-labs/bizassist/internal/logger"
)

// Ensure Host implements the interface.
var _ driving.Host = (*Host)(nil)

// DefaultProbeTimeout bounds each health probe.
const DefaultProbeTimeout = 10 * time.Second

// Host routes ingestion to normalisers and answers queries from the index.
type Host struct {
	index        driven.RecordIndex
	llm          driven.LLMService
	prompts      driven.PromptStore
	synthesizer  *Synthesizer
	generation   driven.GenerateOptions
	normalisers  map[domain.SourceType]driven.Normaliser
	topK         int
	probeTimeout time.Duration
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithTopK sets how many records a query retrieves.
func WithTopK(k int) HostOption {
	return func(h *Host) {
		if k > 0 {
			h.topK = k
		}
	}
}

// WithProbeTimeout sets the per-probe health check timeout.
func WithProbeTimeout(d time.Duration) HostOption {
	return func(h *Host) {
		if d > 0 {
			h.probeTimeout = d
		}
	}
}

// WithPromptStore sets the store for the answer and health probe prompts.
func WithPromptStore(prompts driven.PromptStore) HostOption {
	return func(h *Host) {
		h.prompts = prompts
	}
}

// WithGenerateOptions sets the LLM options used when answering queries.
func WithGenerateOptions(opts driven.GenerateOptions) HostOption {
	return func(h *Host) {
		h.generation = opts
	}
}

// NewHost creates a host. Normalisers are registered by their SourceType;
// a later normaliser for the same type replaces an earlier one.
func NewHost(
	index driven.RecordIndex,
	llm driven.LLMService,
	normalisers []driven.Normaliser,
	opts ...HostOption,
) *Host {
	h := &Host{
		index:        index,
		llm:          llm,
		normalisers:  make(map[domain.SourceType]driven.Normaliser, len(normalisers)),
		topK:         domain.DefaultTopK,
		probeTimeout: DefaultProbeTimeout,
	}
	for _, n := range normalisers {
		h.normalisers[n.SourceType()] = n
	}
	for _, opt := range opts {
		opt(h)
	}
	h.synthesizer = NewSynthesizer(llm, h.prompts, WithGeneration(h.generation))
	return h
}

// Ingest normalises the source and writes its records to the index.
func (h *Host) Ingest(
	ctx context.Context, sourceType domain.SourceType, sourcePath string,
) (result domain.IngestResult, err error) {
	defer recoverAsError("ingest", &err)

	logger.Section("Ingest")
	logger.Info("Ingesting %s source: %s", sourceType, sourcePath)

	normaliser, ok := h.normalisers[sourceType]
	if !ok {
		return domain.IngestResult{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedSource, sourceType)
	}

	records, err := normaliser.Normalise(ctx, sourcePath)
	if err != nil {
		logger.Error("Error ingesting data: %v", err)
		return domain.IngestResult{}, fmt.Errorf("normalise %s source: %w", sourceType, err)
	}

	if len(records) == 0 {
		logger.Warn("No documents extracted from %s source %s", sourceType, sourcePath)
		return domain.IngestResult{
			Status:  domain.IngestError,
			Message: fmt.Sprintf("No documents were extracted from %s source", sourceType),
		}, nil
	}

	ids := make([]string, len(records))
	texts := make([]string, len(records))
	metadatas := make([]domain.Metadata, len(records))
	for i, r := range records {
		ids[i] = r.ID
		texts[i] = r.Text
		metadatas[i] = r.Metadata
	}

	if err := h.index.Upsert(ctx, ids, texts, metadatas); err != nil {
		logger.Error("Error ingesting data: %v", err)
		return domain.IngestResult{}, fmt.Errorf("store records: %w", err)
	}

	stats, err := h.index.Stats(ctx)
	if err != nil {
		logger.Error("Error reading index stats: %v", err)
		return domain.IngestResult{}, fmt.Errorf("index stats: %w", err)
	}

	logger.Info("Ingested %d records, collection holds %d", len(records), stats.TotalDocuments)
	return domain.IngestResult{
		Status:             domain.IngestSuccess,
		DocumentsProcessed: len(records),
		TotalDocuments:     stats.TotalDocuments,
	}, nil
}

// Query retrieves the closest records and synthesises an answer.
func (h *Host) Query(ctx context.Context, text string) (answer domain.Answer, err error) {
	defer recoverAsError("query", &err)

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Answer{}, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	logger.Section("Query")
	logger.Debug("Query: %q, top k: %d", text, h.topK)

	retrieved, err := h.index.Search(ctx, text, h.topK)
	if err != nil {
		logger.Error("Error processing query: %v", err)
		return domain.Answer{}, fmt.Errorf("search index: %w", err)
	}
	logger.Debug("Retrieved %d records", len(retrieved))

	answer, err = h.synthesizer.Answer(ctx, text, retrieved)
	if err != nil {
		logger.Error("Error processing query: %v", err)
		return domain.Answer{}, err
	}
	return answer, nil
}

// Health probes the index and the LLM. Each probe has its own timeout.
func (h *Host) Health(ctx context.Context) domain.HealthReport {
	report := domain.HealthReport{
		VectorStore: h.probeIndex(ctx),
		LLM:         h.probeLLM(ctx),
	}
	report.Overall = report.VectorStore && report.LLM
	logger.Debug("Health: vector_store=%t llm=%t", report.VectorStore, report.LLM)
	return report
}

// recoverAsError turns a panic in op into an ErrInternal error.
// It must be deferred directly.
func recoverAsError(op string, err *error) {
	if r := recover(); r != nil {
		logger.Error("Panic during %s: %v\n%s", op, r, debug.Stack())
		*err = fmt.Errorf("%w: %s: %v", domain.ErrInternal, op, r)
	}
}

// probe runs check, reporting a panic as a failed probe.
func probe(name string, check func() bool) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic during %s health check: %v\n%s", name, r, debug.Stack())
			ok = false
		}
	}()
	return check()
}

func (h *Host) probeIndex(ctx context.Context) bool {
	return probe("vector store", func() bool { return h.checkIndex(ctx) })
}

func (h *Host) probeLLM(ctx context.Context) bool {
	return probe("llm", func() bool { return h.checkLLM(ctx) })
}

func (h *Host) checkIndex(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, h.probeTimeout)
	defer cancel()

	if _, err := h.index.Stats(ctx); err != nil {
		logger.Warn("Vector store health check failed: %v", err)
		return false
	}
	return true
}

func (h *Host) checkLLM(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, h.probeTimeout)
	defer cancel()

	prompt := driven.DefaultHealthProbePrompt
	if h.prompts != nil {
		if p, err := h.prompts.Load(driven.PromptHealthProbe); err == nil && p != "" {
			prompt = p
		}
	}

	text, err := h.llm.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		logger.Warn("LLM health check failed: %v", err)
		return false
	}
	return strings.TrimSpace(text) != ""
}
