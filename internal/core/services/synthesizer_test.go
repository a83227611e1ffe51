package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bizassist/internal/core/domain"
	"github.com/custodia-labs/bizassist/internal/core/ports/driven"
)

func TestSynthesizer_NothingRetrieved(t *testing.T) {
	llm := &mockLLM{response: "should not be used"}
	s := NewSynthesizer(llm, nil)

	answer, err := s.Answer(context.Background(), "when are you open?", nil)

	require.NoError(t, err)
	assert.Equal(t, NoInformationAnswer, answer.Answer)
	assert.Empty(t, answer.Sources)
	assert.Zero(t, answer.Confidence)
	assert.Empty(t, llm.calls(), "LLM must not be called")
}

func TestSynthesizer_Answer(t *testing.T) {
	llm := &mockLLM{response: "  We open at 9am.\n"}
	s := NewSynthesizer(llm, nil)

	retrieved := []domain.RetrievalResult{
		result("website", "https://shop.example/hours", "Open nine to five on weekdays", 0.2),
		result("whatsapp", "chat.txt", "Saturday hours are ten to two", 0.6),
	}

	answer, err := s.Answer(context.Background(), "When do you open?", retrieved)

	require.NoError(t, err)
	assert.Equal(t, "We open at 9am.", answer.Answer)
	assert.Equal(t, []string{
		"website: https://shop.example/hours",
		"whatsapp: chat.txt",
	}, answer.Sources)
	// mean(1/1.2, 1/1.6) = mean(0.8333, 0.625) = 0.729
	assert.Equal(t, 0.73, answer.Confidence)

	calls := llm.calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0], "Question: When do you open?")
	assert.Contains(t, calls[0],
		"Source (website): Open nine to five on weekdays\nSource (whatsapp): Saturday hours are ten to two")
}

func TestSynthesizer_SourcesKeepDuplicatesAndMissingPath(t *testing.T) {
	s := NewSynthesizer(&mockLLM{response: "ok"}, nil)

	retrieved := []domain.RetrievalResult{
		result("website", "https://a.example/", "one", 0),
		result("website", "https://a.example/", "two", 0),
		result("whatsapp", "", "three", 0),
	}

	answer, err := s.Answer(context.Background(), "q", retrieved)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"website: https://a.example/",
		"website: https://a.example/",
		"whatsapp: N/A",
	}, answer.Sources)
	assert.Equal(t, 1.0, answer.Confidence)
}

func TestSynthesizer_NegativeDistanceClamped(t *testing.T) {
	s := NewSynthesizer(&mockLLM{response: "ok"}, nil)

	answer, err := s.Answer(context.Background(), "q",
		[]domain.RetrievalResult{result("website", "u", "t", -0.5)})

	require.NoError(t, err)
	assert.Equal(t, 1.0, answer.Confidence)
}

func TestSynthesizer_LLMFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	s := NewSynthesizer(&mockLLM{err: cause}, nil)

	_, err := s.Answer(context.Background(), "q",
		[]domain.RetrievalResult{result("website", "u", "t", 0.1)})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationService)
	assert.ErrorIs(t, err, cause)
}

func TestSynthesizer_CustomPrompt(t *testing.T) {
	llm := &mockLLM{response: "ok"}
	prompts := &mockPromptStore{prompts: map[string]string{
		driven.PromptAnswer: "Q={{query}} C={{context}}",
	}}
	s := NewSynthesizer(llm, prompts)

	_, err := s.Answer(context.Background(), "price?",
		[]domain.RetrievalResult{result("website", "u", "Ten dollars", 0)})

	require.NoError(t, err)
	assert.Equal(t, []string{"Q=price? C=Source (website): Ten dollars"}, llm.calls())
}

func TestSynthesizer_PromptStoreErrorUsesDefault(t *testing.T) {
	llm := &mockLLM{response: "ok"}
	s := NewSynthesizer(llm, &mockPromptStore{err: errors.New("disk")})

	_, err := s.Answer(context.Background(), "q",
		[]domain.RetrievalResult{result("website", "u", "t", 0)})

	require.NoError(t, err)
	calls := llm.calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0], "verified data from the provided business dataset")
}

func TestSynthesizer_QueryPlaceholderNotExpanded(t *testing.T) {
	llm := &mockLLM{response: "ok"}
	prompts := &mockPromptStore{prompts: map[string]string{
		driven.PromptAnswer: "{{query}}|{{context}}",
	}}
	s := NewSynthesizer(llm, prompts)

	_, err := s.Answer(context.Background(), "{{context}}",
		[]domain.RetrievalResult{result("website", "u", "body", 0)})

	require.NoError(t, err)
	assert.Equal(t, []string{"{{context}}|Source (website): body"}, llm.calls())
}

func TestSynthesizer_WithGeneration(t *testing.T) {
	llm := &mockLLM{response: "ok"}
	opts := driven.GenerateOptions{MaxTokens: 64}
	synth := NewSynthesizer(llm, nil, WithGeneration(opts))

	_, err := synth.Answer(context.Background(), "q", []domain.RetrievalResult{result("website", "p", "t", 0)})

	require.NoError(t, err)
	require.Len(t, llm.options, 1)
	assert.Equal(t, opts, llm.options[0])
}
