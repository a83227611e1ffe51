package mcp

import (
	"github.com/custodia-labs/bizassist/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls into.
type Ports struct {
	// Host ingests sources, answers queries and reports health.
	Host driving.Host
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Host == nil {
		return ErrMissingHost
	}
	return nil
}
