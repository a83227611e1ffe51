package driven

import (
	"context"

	"github.com/custodia-labs/bizassist/internal/core/domain"
)

// Normaliser turns one raw source type into records.
// Each returned record already satisfies the source's minimum word count.
type Normaliser interface {
	// SourceType returns the ingestion source this normaliser handles.
	SourceType() domain.SourceType

	// Normalise reads the source at path (a URL or a file path) and returns its records.
	Normalise(ctx context.Context, path string) ([]domain.Record, error)
}
