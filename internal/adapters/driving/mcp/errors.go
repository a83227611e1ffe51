// Package mcp provides an MCP (Model Context Protocol) server adapter for bizassist.
// It lets AI assistants ingest business data and ask grounded questions.
package mcp

import "errors"

// ErrMissingHost is returned when the host is not provided.
var ErrMissingHost = errors.New("mcp: host is required")
