package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedSource indicates an ingestion source type with no normaliser.
	ErrUnsupportedSource = errors.New("unsupported source type")

	// ErrIndexWrite indicates the record index rejected a batch.
	ErrIndexWrite = errors.New("index write failed")

	// ErrGenerationService indicates the language model failed to produce an answer.
	ErrGenerationService = errors.New("generation service failed")

	// ErrMissingConfig indicates a required configuration value is absent.
	ErrMissingConfig = errors.New("missing configuration")

	// ErrLLMUnavailable indicates the LLM service could not be created or reached.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service could not be created or reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrInternal indicates an unexpected failure inside an operation.
	ErrInternal = errors.New("internal error")
)
