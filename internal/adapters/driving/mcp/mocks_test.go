package mcp

import (
	"context"

	"github.com/custodia-labs/bizassist/internal/core/domain"
)

// mockHost is a mock implementation of driving.Host.
type mockHost struct {
	ingestResult domain.IngestResult
	answer       domain.Answer
	health       domain.HealthReport
	err          error

	lastSourceType domain.SourceType
	lastPath       string
	lastQuery      string
}

func (m *mockHost) Ingest(_ context.Context, st domain.SourceType, path string) (domain.IngestResult, error) {
	m.lastSourceType = st
	m.lastPath = path
	return m.ingestResult, m.err
}

func (m *mockHost) Query(_ context.Context, text string) (domain.Answer, error) {
	m.lastQuery = text
	return m.answer, m.err
}

func (m *mockHost) Health(_ context.Context) domain.HealthReport {
	return m.health
}
