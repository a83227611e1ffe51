package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/bizassist/internal/core/domain"
)

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	SourceType string `json:"source_type" jsonschema:"the kind of source: website or whatsapp"`
	SourcePath string `json:"source_path" jsonschema:"a URL for websites or a file path for chat exports"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	Status             string `json:"status"`
	DocumentsProcessed int    `json:"documents_processed"`
	TotalDocuments     int    `json:"total_documents"`
	Message            string `json:"message,omitempty"`
}

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Query string `json:"query" jsonschema:"the question to answer from ingested business data"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`
	Confidence float64  `json:"confidence"`
}

// HealthInput is the (empty) input schema for the health tool.
type HealthInput struct{}

// HealthOutput is the output schema for the health tool.
type HealthOutput struct {
	VectorStore bool `json:"vector_store"`
	LLM         bool `json:"llm"`
	Overall     bool `json:"overall"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Ingest a website or a WhatsApp chat export into the business data index",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Answer a question using only ingested business data, with sources and confidence",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "health",
		Description: "Check that the vector store and the language model are reachable",
	}, s.handleHealth)
}

func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	sourceType := domain.SourceType(strings.ToLower(strings.TrimSpace(input.SourceType)))
	if !sourceType.IsValid() {
		return nil, IngestOutput{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedSource, input.SourceType)
	}
	if strings.TrimSpace(input.SourcePath) == "" {
		return nil, IngestOutput{}, fmt.Errorf("%w: source_path is required", domain.ErrInvalidInput)
	}

	result, err := s.ports.Host.Ingest(ctx, sourceType, input.SourcePath)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		Status:             string(result.Status),
		DocumentsProcessed: result.DocumentsProcessed,
		TotalDocuments:     result.TotalDocuments,
		Message:            result.Message,
	}, nil
}

func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	answer, err := s.ports.Host.Query(ctx, input.Query)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	return nil, QueryOutput{
		Answer:     answer.Answer,
		Sources:    sources,
		Confidence: answer.Confidence,
	}, nil
}

func (s *Server) handleHealth(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ HealthInput,
) (*mcp.CallToolResult, HealthOutput, error) {
	report := s.ports.Host.Health(ctx)
	return nil, HealthOutput{
		VectorStore: report.VectorStore,
		LLM:         report.LLM,
		Overall:     report.Overall,
	}, nil
}
