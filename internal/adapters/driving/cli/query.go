package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bizassist/internal/core/domain"
)

var (
	queryTopK   int
	queryOutput string
)

var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Ask a question about your business data",
	Long: `Retrieves the most similar records and asks the language model to answer
using only them. Prints the answer, a confidence score and the sources.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0,
		fmt.Sprintf("records to retrieve (default %d or query.top_k)", domain.DefaultTopK))
	queryCmd.Flags().StringVarP(&queryOutput, "output", "o", formatText, "output format: text, json or yaml")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	ctx := cmd.Context()

	rt, err := openRuntime(ctx, Options{TopK: queryTopK})
	if err != nil {
		return err
	}
	defer rt.close()

	answer, err := runWithProgress(ctx, cmd, "Thinking",
		func(ctx context.Context) (domain.Answer, error) {
			return rt.Host.Query(ctx, question)
		})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	structured, err := writeStructured(cmd, queryOutput, answer)
	if structured || err != nil {
		return err
	}

	cmd.Println(answer.Answer)
	cmd.Println()
	cmd.Printf("%s %.2f\n", headingStyle.Render("Confidence:"), answer.Confidence)
	if len(answer.Sources) > 0 {
		cmd.Println(headingStyle.Render("Sources:"))
		for _, src := range answer.Sources {
			cmd.Printf("  - %s\n", src)
		}
	}
	return nil
}
