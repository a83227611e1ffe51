package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/bizassist/internal/core/domain"
)

const uriScheme = "bizassist://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "health",
		Name:        "health",
		Description: "Current reachability of the vector store and language model",
		MIMEType:    "application/json",
	}, s.handleHealthResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "Source types accepted by the ingest tool",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)
}

func (s *Server) handleHealthResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.ports.Host.Health(ctx))
}

func (s *Server) handleSourcesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type sourceInfo struct {
		Type       string `json:"type"`
		PathFormat string `json:"path_format"`
	}

	infos := make([]sourceInfo, 0, len(domain.AllSourceTypes()))
	for _, st := range domain.AllSourceTypes() {
		format := "file path"
		if st == domain.SourceWebsite {
			format = "http(s) URL"
		}
		infos = append(infos, sourceInfo{Type: st.String(), PathFormat: format})
	}
	return jsonResource(req.Params.URI, infos)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
