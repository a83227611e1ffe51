package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bizassist/internal/core/domain"
)

func newTestServer(t *testing.T, host *mockHost) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Host: host})
	require.NoError(t, err)
	return server
}

func TestServer_handleIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("ingests a chat export", func(t *testing.T) {
		host := &mockHost{ingestResult: domain.IngestResult{
			Status:             domain.IngestSuccess,
			DocumentsProcessed: 12,
			TotalDocuments:     40,
		}}
		server := newTestServer(t, host)

		_, out, err := server.handleIngest(ctx, nil, IngestInput{
			SourceType: " WhatsApp ",
			SourcePath: "/data/chat.txt",
		})

		require.NoError(t, err)
		assert.Equal(t, IngestOutput{Status: "success", DocumentsProcessed: 12, TotalDocuments: 40}, out)
		assert.Equal(t, domain.SourceWhatsApp, host.lastSourceType)
		assert.Equal(t, "/data/chat.txt", host.lastPath)
	})

	t.Run("reports no documents", func(t *testing.T) {
		host := &mockHost{ingestResult: domain.IngestResult{
			Status:  domain.IngestError,
			Message: "No documents were extracted from website source",
		}}
		server := newTestServer(t, host)

		_, out, err := server.handleIngest(ctx, nil, IngestInput{
			SourceType: "website",
			SourcePath: "https://shop.example",
		})

		require.NoError(t, err)
		assert.Equal(t, "error", out.Status)
		assert.Contains(t, out.Message, "No documents")
	})

	t.Run("rejects unknown source type", func(t *testing.T) {
		host := &mockHost{}
		server := newTestServer(t, host)

		_, _, err := server.handleIngest(ctx, nil, IngestInput{SourceType: "fax", SourcePath: "x"})

		assert.ErrorIs(t, err, domain.ErrUnsupportedSource)
		assert.Empty(t, host.lastPath)
	})

	t.Run("rejects empty path", func(t *testing.T) {
		server := newTestServer(t, &mockHost{})

		_, _, err := server.handleIngest(ctx, nil, IngestInput{SourceType: "website"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("propagates host errors", func(t *testing.T) {
		server := newTestServer(t, &mockHost{err: domain.ErrIndexWrite})

		_, _, err := server.handleIngest(ctx, nil, IngestInput{SourceType: "whatsapp", SourcePath: "c.txt"})

		assert.ErrorIs(t, err, domain.ErrIndexWrite)
	})
}

func TestServer_handleQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the answer", func(t *testing.T) {
		host := &mockHost{answer: domain.Answer{
			Answer:     "We open at nine.",
			Sources:    []string{"website: https://shop.example/hours"},
			Confidence: 0.81,
		}}
		server := newTestServer(t, host)

		_, out, err := server.handleQuery(ctx, nil, QueryInput{Query: "When do you open?"})

		require.NoError(t, err)
		assert.Equal(t, "We open at nine.", out.Answer)
		assert.Equal(t, []string{"website: https://shop.example/hours"}, out.Sources)
		assert.Equal(t, 0.81, out.Confidence)
		assert.Equal(t, "When do you open?", host.lastQuery)
	})

	t.Run("nil sources become empty", func(t *testing.T) {
		server := newTestServer(t, &mockHost{answer: domain.Answer{Answer: "none"}})

		_, out, err := server.handleQuery(ctx, nil, QueryInput{Query: "q"})

		require.NoError(t, err)
		assert.NotNil(t, out.Sources)
		assert.Empty(t, out.Sources)
	})

	t.Run("propagates errors", func(t *testing.T) {
		cause := errors.New("model overloaded")
		server := newTestServer(t, &mockHost{err: cause})

		_, _, err := server.handleQuery(ctx, nil, QueryInput{Query: "q"})

		assert.ErrorIs(t, err, cause)
	})
}

func TestServer_handleHealth(t *testing.T) {
	host := &mockHost{health: domain.HealthReport{VectorStore: true, LLM: false, Overall: false}}
	server := newTestServer(t, host)

	_, out, err := server.handleHealth(context.Background(), nil, HealthInput{})

	require.NoError(t, err)
	assert.Equal(t, HealthOutput{VectorStore: true}, out)
}
