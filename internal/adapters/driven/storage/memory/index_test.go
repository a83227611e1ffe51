package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bizassist/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/bizassist/internal/core/domain"
)

func newTestIndex() *Index {
	return NewIndex(local.NewEmbeddingService(local.Config{}))
}

func TestIndex_EmptySearch(t *testing.T) {
	idx := newTestIndex()

	results, err := idx.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIndex_RoundTrip(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	texts := []string{"deliveries leave the warehouse at noon", "returns are accepted within fourteen days"}
	metas := []domain.Metadata{
		{domain.MetaSource: "whatsapp", domain.MetaPath: "chat.txt"},
		{domain.MetaSource: "website"},
	}
	require.NoError(t, idx.Upsert(ctx, []string{"x", "y"}, texts, metas))

	results, err := idx.Search(ctx, texts[1], 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "y", results[0].ID)
	assert.InDelta(t, 0, results[0].Distance, 1e-5)
	assert.Equal(t, "N/A", results[0].Metadata.Path())
	assert.LessOrEqual(t, results[0].Distance, results[1].Distance)

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDocuments)
}

func TestIndex_MetadataIsCopied(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	meta := domain.Metadata{domain.MetaSource: "website"}
	require.NoError(t, idx.Upsert(ctx, []string{"a"}, []string{"some text"}, []domain.Metadata{meta}))
	meta[domain.MetaSource] = "changed"

	results, err := idx.Search(ctx, "some text", 1)
	require.NoError(t, err)
	assert.Equal(t, "website", results[0].Metadata.Source())
}

func TestIndex_Duplicates(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []string{"a"}, []string{"one"}, []domain.Metadata{nil}))

	err := idx.Upsert(ctx, []string{"b", "a"}, []string{"two", "three"}, []domain.Metadata{nil, nil})
	assert.ErrorIs(t, err, domain.ErrIndexWrite)

	err = idx.Upsert(ctx, []string{"c", "c"}, []string{"two", "three"}, []domain.Metadata{nil, nil})
	assert.ErrorIs(t, err, domain.ErrIndexWrite)

	stats, _ := idx.Stats(ctx)
	assert.Equal(t, 1, stats.TotalDocuments)
}

func TestIndex_LengthMismatch(t *testing.T) {
	err := newTestIndex().Upsert(context.Background(), []string{"a"}, []string{"x", "y"}, []domain.Metadata{nil})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndex_DefaultK(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	for n := 0; n < 8; n++ {
		id := fmt.Sprintf("r%d", n)
		require.NoError(t, idx.Upsert(ctx, []string{id}, []string{"record " + id}, []domain.Metadata{nil}))
	}

	results, err := idx.Search(ctx, "record", -1)
	require.NoError(t, err)
	assert.Len(t, results, domain.DefaultTopK)
}

func TestIndex_ConcurrentAccess(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	var wg sync.WaitGroup
	for n := 0; n < 20; n++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("id-%d", n)
			assert.NoError(t, idx.Upsert(ctx, []string{id}, []string{"text " + id}, []domain.Metadata{nil}))
		}(n)
		go func() {
			defer wg.Done()
			_, err := idx.Search(ctx, "text", 3)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, _ := idx.Stats(ctx)
	assert.Equal(t, 20, stats.TotalDocuments)
}

func TestIndex_Close(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []string{"a"}, []string{"one"}, []domain.Metadata{nil}))
	require.NoError(t, idx.Close())

	stats, _ := idx.Stats(ctx)
	assert.Equal(t, 0, stats.TotalDocuments)
}
