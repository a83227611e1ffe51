package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/bizassist/internal/core/domain"
	"github.com/custodia-labs/bizassist/internal/core/ports/driven"
	"github.com/custodia-labs/bizassist/internal/core/ports/driving"
	"github.com/custodia-labs/bizassist/internal/logger"
)

// Options are command-line overrides applied on top of loaded settings.
// Zero values leave the setting unchanged.
type Options struct {
	MaxPages   int
	Extraction domain.ExtractionMode
	TopK       int
}

// Runtime is the wired application a command runs against.
type Runtime struct {
	Host     driving.Host
	Settings domain.AppSettings

	// Close releases the index and AI clients. May be nil.
	Close func() error
}

// RuntimeFactory builds a Runtime from the config store and overrides.
type RuntimeFactory func(ctx context.Context, store driven.ConfigStore, opts Options) (*Runtime, error)

var runtimeFactory RuntimeFactory

// SetRuntimeFactory installs the function that wires the application.
func SetRuntimeFactory(f RuntimeFactory) {
	runtimeFactory = f
}

func openRuntime(ctx context.Context, opts Options) (*Runtime, error) {
	if runtimeFactory == nil {
		return nil, errors.New("runtime not configured")
	}
	store, err := openConfig()
	if err != nil {
		return nil, err
	}
	return runtimeFactory(ctx, store, opts)
}

func (r *Runtime) close() {
	if r == nil || r.Close == nil {
		return
	}
	if err := r.Close(); err != nil {
		logger.Warn("Error closing resources: %v", err)
	}
}
