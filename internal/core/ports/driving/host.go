package driving

import (
	"context"

	"github.com/custodia-labs/bizassist/internal/core/domain"
)

// Host is the entire boundary surface offered to front ends.
type Host interface {
	// Ingest routes a source to its normaliser and writes the records.
	// A source that yields no records is reported as an error result, not an error.
	Ingest(ctx context.Context, sourceType domain.SourceType, sourcePath string) (domain.IngestResult, error)

	// Query retrieves relevant records and synthesises a cited answer.
	Query(ctx context.Context, text string) (domain.Answer, error)

	// Health probes the index and the generation service. It never fails.
	Health(ctx context.Context) domain.HealthReport
}
