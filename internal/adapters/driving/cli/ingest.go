package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bizassist/internal/core/domain"
)

var (
	ingestMaxPages int
	ingestMode     string
	ingestOutput   string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest business data",
	Long: `Ingest a website or a WhatsApp chat export into the vector index.

Examples:
  bizassist ingest website https://example.com --max-pages 20
  bizassist ingest whatsapp "WhatsApp Chat with Team.txt"`,
}

var ingestWebsiteCmd = &cobra.Command{
	Use:   "website <url>",
	Short: "Crawl a website and ingest its text",
	Long: `Crawls pages on the same host as <url>, breadth first, up to --max-pages.
Navigation, footers and scripts are dropped; paragraphs of ten words or
more become records.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngestWebsite,
}

var ingestWhatsAppCmd = &cobra.Command{
	Use:   "whatsapp <file>",
	Short: "Import a WhatsApp chat export",
	Long: `Imports a WhatsApp "Export chat" text file. Each message of three
words or more becomes a record with its sender and timestamp.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngestWhatsApp,
}

func init() {
	ingestWebsiteCmd.Flags().IntVarP(&ingestMaxPages, "max-pages", "m", 0,
		fmt.Sprintf("maximum pages to crawl (default %d or crawl.max_pages)", domain.DefaultMaxPages))
	ingestWebsiteCmd.Flags().StringVar(&ingestMode, "mode", "",
		"text extraction: text or readability (default crawl.extraction)")
	ingestCmd.PersistentFlags().StringVarP(&ingestOutput, "output", "o", formatText, "output format: text, json or yaml")

	ingestCmd.AddCommand(ingestWebsiteCmd)
	ingestCmd.AddCommand(ingestWhatsAppCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIngestWebsite(cmd *cobra.Command, args []string) error {
	mode := domain.ExtractionMode(ingestMode)
	if ingestMode != "" && !mode.IsValid() {
		return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, ingestMode)
	}
	return runIngest(cmd, domain.SourceWebsite, args[0], Options{
		MaxPages:   ingestMaxPages,
		Extraction: mode,
	})
}

func runIngestWhatsApp(cmd *cobra.Command, args []string) error {
	return runIngest(cmd, domain.SourceWhatsApp, args[0], Options{})
}

func runIngest(cmd *cobra.Command, sourceType domain.SourceType, path string, opts Options) error {
	ctx := cmd.Context()

	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.close()

	result, err := runWithProgress(ctx, cmd, "Ingesting "+path,
		func(ctx context.Context) (domain.IngestResult, error) {
			return rt.Host.Ingest(ctx, sourceType, path)
		})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	structured, err := writeStructured(cmd, ingestOutput, result)
	if err != nil {
		return err
	}
	if !structured {
		printIngestResult(cmd, sourceType, result)
	}

	if result.Status != domain.IngestSuccess {
		return errors.New(result.Message)
	}
	return nil
}

func printIngestResult(cmd *cobra.Command, sourceType domain.SourceType, result domain.IngestResult) {
	if result.Status != domain.IngestSuccess {
		cmd.Println(errorStyle.Render(result.Message))
		return
	}
	cmd.Printf("%s %d %s records ingested (%d in index)\n",
		okStyle.Render("✓"), result.DocumentsProcessed, sourceType, result.TotalDocuments)
}
