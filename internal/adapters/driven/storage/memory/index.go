package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/bizassist/internal/core/domain"
	"github.com/custodia-labs/bizassist/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.RecordIndex = (*Index)(nil)

type entry struct {
	record    domain.Record
	embedding []float32
}

// Index is an in-memory record index. Contents are lost on Close.
type Index struct {
	mu       sync.RWMutex
	embedder driven.EmbeddingService
	order    []string
	entries  map[string]entry
}

// NewIndex creates an empty in-memory index using embedder for vectors.
func NewIndex(embedder driven.EmbeddingService) *Index {
	return &Index{
		embedder: embedder,
		entries:  make(map[string]entry),
	}
}

// Upsert embeds and stores a batch. A batch containing an id that is
// already stored, or repeated within the batch, is rejected as a whole.
func (i *Index) Upsert(ctx context.Context, ids, texts []string, metadatas []domain.Metadata) error {
	if len(ids) != len(texts) || len(ids) != len(metadatas) {
		return fmt.Errorf("%w: %d ids, %d texts, %d metadatas",
			domain.ErrInvalidInput, len(ids), len(texts), len(metadatas))
	}
	if len(ids) == 0 {
		return nil
	}

	embeddings, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: embedding batch: %w", domain.ErrIndexWrite, err)
	}
	if len(embeddings) != len(texts) {
		return fmt.Errorf("%w: got %d embeddings for %d texts", domain.ErrIndexWrite, len(embeddings), len(texts))
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		_, stored := i.entries[id]
		_, repeated := seen[id]
		if stored || repeated {
			return fmt.Errorf("%w: duplicate id %s", domain.ErrIndexWrite, id)
		}
		seen[id] = struct{}{}
	}

	for n, id := range ids {
		i.entries[id] = entry{
			record: domain.Record{
				ID:       id,
				Text:     texts[n],
				Metadata: metadatas[n].Clone(),
			},
			embedding: embeddings[n],
		}
		i.order = append(i.order, id)
	}
	return nil
}

// Search returns up to k records by ascending cosine distance.
func (i *Index) Search(ctx context.Context, queryText string, k int) ([]domain.RetrievalResult, error) {
	if k <= 0 {
		k = domain.DefaultTopK
	}

	query, err := i.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	i.mu.RLock()
	results := make([]domain.RetrievalResult, 0, len(i.order))
	for _, id := range i.order {
		e := i.entries[id]
		rec := e.record
		rec.Metadata = rec.Metadata.Clone()
		results = append(results, domain.RetrievalResult{
			Record:   rec,
			Distance: domain.CosineDistance(query, e.embedding),
		})
	}
	i.mu.RUnlock()

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Distance < results[b].Distance
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Stats reports the number of stored records.
func (i *Index) Stats(_ context.Context) (domain.IndexStats, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return domain.IndexStats{TotalDocuments: len(i.entries)}, nil
}

// Close discards all records.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries = make(map[string]entry)
	i.order = nil
	return nil
}
