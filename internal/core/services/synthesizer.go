package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/custodia-labs/bizassist/internal/core/domain"
	"github.com/custodia-labs/bizassist/internal/core/ports/driven"
	"github.com/custodia-labs/bizassist/internal/logger"
)

// NoInformationAnswer is returned when nothing relevant was retrieved.
const NoInformationAnswer = "I don't have enough information to answer that question. " +
	"Try ingesting some business data first."

// Synthesizer turns retrieved records into a cited answer with one LLM call.
type Synthesizer struct {
	llm        driven.LLMService
	prompts    driven.PromptStore
	generation driven.GenerateOptions
}

// SynthesizerOption configures a Synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithGeneration sets the options passed to every answer generation call.
func WithGeneration(opts driven.GenerateOptions) SynthesizerOption {
	return func(s *Synthesizer) {
		s.generation = opts
	}
}

// NewSynthesizer creates a synthesizer. prompts may be nil, in which case
// the built-in answer template is used.
func NewSynthesizer(llm driven.LLMService, prompts driven.PromptStore, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{llm: llm, prompts: prompts}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer generates an answer to query grounded in retrieved.
// With nothing retrieved it returns the fallback answer without calling the LLM.
func (s *Synthesizer) Answer(
	ctx context.Context, query string, retrieved []domain.RetrievalResult,
) (domain.Answer, error) {
	if len(retrieved) == 0 {
		logger.Debug("No records retrieved, returning fallback answer")
		return domain.Answer{Answer: NoInformationAnswer, Sources: []string{}, Confidence: 0}, nil
	}

	prompt := s.buildPrompt(query, retrieved)
	logger.Debug("Answer prompt: %d chars, %d records", len(prompt), len(retrieved))

	text, err := s.llm.Generate(ctx, prompt, s.generation)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrGenerationService, err)
	}

	return domain.Answer{
		Answer:     strings.TrimSpace(text),
		Sources:    citeSources(retrieved),
		Confidence: confidence(retrieved),
	}, nil
}

func (s *Synthesizer) buildPrompt(query string, retrieved []domain.RetrievalResult) string {
	template := driven.DefaultAnswerPrompt
	if s.prompts != nil {
		if p, err := s.prompts.Load(driven.PromptAnswer); err == nil && p != "" {
			template = p
		} else if err != nil {
			logger.Warn("Failed to load answer prompt, using default: %v", err)
		}
	}

	// Context first so a query containing "{{context}}" is not expanded.
	prompt := strings.ReplaceAll(template, "{{context}}", buildContext(retrieved))
	return strings.ReplaceAll(prompt, "{{query}}", query)
}

// buildContext renders one "Source (<source>): <text>" line per record.
func buildContext(retrieved []domain.RetrievalResult) string {
	lines := make([]string, len(retrieved))
	for i, r := range retrieved {
		lines[i] = fmt.Sprintf("Source (%s): %s", r.Metadata.Source(), r.Text)
	}
	return strings.Join(lines, "\n")
}

// citeSources lists "<source>: <path>" per record, duplicates kept.
func citeSources(retrieved []domain.RetrievalResult) []string {
	sources := make([]string, len(retrieved))
	for i, r := range retrieved {
		sources[i] = fmt.Sprintf("%s: %s", r.Metadata.Source(), r.Metadata.Path())
	}
	return sources
}

// confidence is the mean of 1/(1+d), rounded to two decimals.
func confidence(retrieved []domain.RetrievalResult) float64 {
	var sum float64
	for _, r := range retrieved {
		sum += 1 / (1 + max(r.Distance, 0))
	}
	return math.Round(sum/float64(len(retrieved))*100) / 100
}
