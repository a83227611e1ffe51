// Package cli provides the bizassist command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bizassist/internal/adapters/driven/config/file"
	"github.com/custodia-labs/bizassist/internal/core/ports/driven"
	"github.com/custodia-labs/bizassist/internal/logger"
)

var version = "dev"

var (
	verbose   bool
	configDir string

	// configStore is opened by openConfig unless already set.
	configStore driven.ConfigStore
)

var rootCmd = &cobra.Command{
	Use:   "bizassist",
	Short: "Answer questions from your business data",
	Long: `bizassist ingests your website and WhatsApp chat exports into a local
vector index and answers questions using only that data, with sources
and a confidence score.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.bizassist)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and prints any error on stderr.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		rootCmd.PrintErrln(errorStyle.Render("Error:"), err)
	}
	return err
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	return nil
}

// openConfig returns the config store, opening the file in --config-dir
// on first use.
func openConfig() (driven.ConfigStore, error) {
	if configStore != nil {
		return configStore, nil
	}
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	configStore = store
	return store, nil
}

// errUnhealthy is returned by health when any probe fails, for the exit code.
var errUnhealthy = errors.New("one or more components are unhealthy")
