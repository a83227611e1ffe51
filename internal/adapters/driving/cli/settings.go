package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/bizassist/internal/adapters/driven/ai"
	"github.com/custodia-labs/bizassist/internal/adapters/driven/config/file"
	"github.com/custodia-labs/bizassist/internal/core/domain"
	"github.com/custodia-labs/bizassist/internal/core/ports/driven"
)

// aiValidator pings providers for settings check.
var aiValidator driven.AIConfigValidator = ai.NewConfigValidator()

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in ~/.bizassist/config.toml.

Environment variables (GEMINI_API_KEY, OPENAI_API_KEY, INDEX_PATH, DATA_DIR,
LLM_PROVIDER, EMBEDDING_PROVIDER) and a .env file override the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Long: `Set a setting in the config file. Known keys:

  ` + strings.Join(file.KnownKeys(), "\n  "),
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key [llm|embedding]",
	Short: "Store an API key without echoing it",
	Long: `Prompts for an API key and stores it in the config file (mode 0600).
Defaults to the LLM key.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"llm", "embedding"},
	RunE:      runSettingsSetKey,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate settings and ping the AI providers",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func loadSettings() (domain.AppSettings, driven.ConfigStore, error) {
	store, err := openConfig()
	if err != nil {
		return domain.AppSettings{}, nil, err
	}
	return file.LoadSettings(store, nil), store, nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	settings, store, err := loadSettings()
	if err != nil {
		return err
	}

	cmd.Println(headingStyle.Render("Current Settings"))
	cmd.Println(mutedStyle.Render(store.Path()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
	}
	if settings.LLM.Temperature > 0 {
		cmd.Printf("  Temperature: %g\n", settings.LLM.Temperature)
	}
	if settings.LLM.MaxTokens > 0 {
		cmd.Printf("  Max tokens: %d\n", settings.LLM.MaxTokens)
	}
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
	}
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Backend: %s\n", settings.Index.Backend)
	cmd.Printf("  Path: %s\n", orNotSet(settings.Index.Path))
	cmd.Println()

	cmd.Println("[Crawl]")
	cmd.Printf("  Max pages: %d\n", settings.Crawl.MaxPages)
	cmd.Printf("  Timeout: %s\n", settings.Crawl.Timeout)
	cmd.Printf("  Requests per second: %g\n", settings.Crawl.RequestsPerSecond)
	cmd.Printf("  Extraction: %s\n", settings.Crawl.Extraction)
	cmd.Println()

	cmd.Println("[Query]")
	cmd.Printf("  Top K: %d\n", settings.Query.TopK)
	cmd.Println()

	cmd.Printf("Data dir: %s\n", orNotSet(settings.DataDir))
	if settings.LogFile != "" {
		cmd.Printf("Log file: %s\n", settings.LogFile)
	}
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("%s %v\n", errorStyle.Render("Warning:"), err)
	} else {
		cmd.Println(okStyle.Render("Configuration is valid."))
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	value, err := file.ParseValue(key, raw)
	if err != nil {
		return err
	}

	store, err := openConfig()
	if err != nil {
		return err
	}
	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	if kind, _ := file.KindOf(key); kind == file.KindSecret {
		cmd.Printf("Set %s = %s\n", key, maskAPIKey(raw))
	} else {
		cmd.Printf("Set %s = %s\n", key, raw)
	}
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, args []string) error {
	key := file.KeyLLMAPIKey
	if len(args) == 1 {
		switch args[0] {
		case "llm":
		case "embedding":
			key = file.KeyEmbeddingAPIKey
		default:
			return fmt.Errorf("%w: expected llm or embedding, got %q", domain.ErrInvalidInput, args[0])
		}
	}

	cmd.Print("API key: ")
	apiKey := readPassword(cmd.InOrStdin())
	cmd.Println()
	if apiKey == "" {
		return errors.New("no key entered")
	}

	store, err := openConfig()
	if err != nil {
		return err
	}
	if err := store.Set(key, apiKey); err != nil {
		return fmt.Errorf("failed to save key: %w", err)
	}

	cmd.Printf("Stored %s (%s)\n", key, maskAPIKey(apiKey))
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	settings, _, err := loadSettings()
	if err != nil {
		return err
	}

	if err := settings.Validate(); err != nil {
		return err
	}

	cmd.Printf("Checking LLM (%s)... ", settings.LLM.Provider)
	if err := aiValidator.ValidateLLM(&settings.LLM); err != nil {
		cmd.Println(errorStyle.Render("FAILED"))
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println(okStyle.Render("OK"))

	cmd.Printf("Checking embeddings (%s)... ", settings.Embedding.Provider)
	if err := aiValidator.ValidateEmbedding(&settings.Embedding); err != nil {
		cmd.Println(errorStyle.Render("FAILED"))
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println(okStyle.Render("OK"))

	return nil
}

// readPassword reads a line without echo when in is a terminal.
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return strings.TrimSpace(line)
}

func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
