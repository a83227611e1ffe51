package cli

import (
	"github.com/spf13/cobra"
)

var healthOutput string

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the vector store and language model",
	Long: `Checks that the vector index answers and that the language model
replies to a short prompt. Exits non-zero when either check fails.`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().StringVarP(&healthOutput, "output", "o", formatText, "output format: text, json or yaml")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rt, err := openRuntime(ctx, Options{})
	if err != nil {
		return err
	}
	defer rt.close()

	report := rt.Host.Health(ctx)

	structured, err := writeStructured(cmd, healthOutput, report)
	if err != nil {
		return err
	}
	if !structured {
		cmd.Printf("Vector store: %s\n", statusText(report.VectorStore))
		cmd.Printf("LLM:          %s\n", statusText(report.LLM))
		cmd.Printf("Overall:      %s\n", statusText(report.Overall))
	}

	if !report.Overall {
		return errUnhealthy
	}
	return nil
}
