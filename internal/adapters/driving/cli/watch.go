package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/bizassist/internal/adapters/driving/watcher"
	"github.com/custodia-labs/bizassist/internal/core/domain"
)

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Import chat exports as they appear",
	Long: `Watches the data directory (data_dir or DATA_DIR) and imports every
.txt chat export that is created or changed. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchDir, "dir", "d", "", "directory to watch (default data_dir)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rt, err := openRuntime(ctx, Options{})
	if err != nil {
		return err
	}
	defer rt.close()

	dir := watchDir
	if dir == "" {
		dir = rt.Settings.DataDir
	}

	cmd.Printf("Watching %s for chat exports (Ctrl+C to stop)\n", dir)
	return watcher.New(rt.Host, dir).Run(ctx, func(ev watcher.Event) {
		if ev.Err != nil {
			cmd.PrintErrf("%s %s: %v\n", errorStyle.Render("✗"), ev.Path, ev.Err)
			return
		}
		if ev.Result.Status != domain.IngestSuccess {
			cmd.Printf("%s %s: %s\n", mutedStyle.Render("-"), ev.Path, ev.Result.Message)
			return
		}
		cmd.Printf("%s %s: %d records (%d in index)\n", okStyle.Render("✓"), ev.Path,
			ev.Result.DocumentsProcessed, ev.Result.TotalDocuments)
	})
}
