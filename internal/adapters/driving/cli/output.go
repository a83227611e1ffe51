package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// writeStructured prints v as JSON or YAML. It reports false for text.
func writeStructured(cmd *cobra.Command, format string, v any) (bool, error) {
	switch format {
	case formatText, "":
		return false, nil
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("failed to marshal output: %w", err)
		}
		cmd.Println(string(data))
		return true, nil
	case formatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return true, fmt.Errorf("failed to marshal output: %w", err)
		}
		cmd.Print(string(data))
		return true, nil
	default:
		return true, fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runWithProgress runs fn in a goroutine and, on a terminal, shows an
// elapsed-time ticker on stderr until it returns.
func runWithProgress[T any](
	ctx context.Context,
	cmd *cobra.Command,
	label string,
	fn func(context.Context) (T, error),
) (T, error) {
	type outcome struct {
		value T
		err   error
	}

	resultCh := make(chan outcome, 1)
	go func() {
		v, err := fn(ctx)
		resultCh <- outcome{v, err}
	}()

	out := cmd.ErrOrStderr()
	show := isTerminal(out)

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case res := <-resultCh:
			if show {
				fmt.Fprint(out, "\r\033[K")
			}
			return res.value, res.err
		case <-ticker.C:
			if show {
				fmt.Fprintf(out, "\r%s %s", label, mutedStyle.Render(time.Since(start).Truncate(time.Second).String()))
			}
		}
	}
}
