package driven

import (
	"context"

	"github.com/custodia-labs/bizassist/internal/core/domain"
)

// CollectionName is the single logical namespace all records are written to.
const CollectionName = "business_data"

// RecordIndex is a durable similarity-search collection of records.
// Embeddings are computed by the implementation; callers work with text only.
type RecordIndex interface {
	// Upsert writes a batch. The three slices must have equal length.
	// Rejections by the underlying store are returned wrapped in domain.ErrIndexWrite.
	Upsert(ctx context.Context, ids, texts []string, metadatas []domain.Metadata) error

	// Search returns up to k records ordered by ascending cosine distance.
	// An empty collection yields an empty slice and no error.
	Search(ctx context.Context, queryText string, k int) ([]domain.RetrievalResult, error)

	// Stats reports the number of stored records.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Close releases resources.
	Close() error
}
