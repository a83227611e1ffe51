// Package chat provides the chat export normaliser for WhatsApp-style
// message logs.
package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/bizassist/internal/core/domain"
	"github.com/custodia-labs/bizassist/internal/core/ports/driven"
	"github.com/custodia-labs/bizassist/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// headerPattern matches the first line of a message:
// optional "[", a date/time, optional "]", " - ", sender, ":", text.
var headerPattern = regexp.MustCompile(
	`^\[?(\d{1,2}/\d{1,2}/\d{2,4},?\s*\d{1,2}:\d{2}(?::\d{2})?(?:\s*[AaPp][Mm])?)\]?\s*-\s*([^:]+):\s*(.+)$`,
)

// maxLineSize bounds a single line; long pasted content can exceed bufio's default.
const maxLineSize = 1024 * 1024

// Normaliser imports chat export files.
type Normaliser struct{}

// New creates a new chat normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SourceType returns the ingestion source this normaliser handles.
func (n *Normaliser) SourceType() domain.SourceType {
	return domain.SourceWhatsApp
}

// Normalise imports the chat export at path.
func (n *Normaliser) Normalise(ctx context.Context, path string) ([]domain.Record, error) {
	return n.Import(ctx, path)
}

// Import reads a UTF-8 chat export file and returns one record per message.
func (n *Normaliser) Import(ctx context.Context, path string) ([]domain.Record, error) {
	logger.Info("Importing WhatsApp chat from %s", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chat export: %w", err)
	}
	defer f.Close()

	records, err := n.Parse(ctx, f, path)
	if err != nil {
		return nil, err
	}

	logger.Info("Imported %d messages from WhatsApp chat", len(records))
	return records, nil
}

// message is the state of the message being accumulated.
type message struct {
	sender    string
	timestamp string
	lines     []string
}

// Parse runs the line state machine over r. path is recorded on every record.
//
// A header line flushes the message in progress and starts a new one.
// Non-blank lines that are not headers continue the current message.
// A header whose timestamp cannot be parsed is logged and dropped, and
// the following lines are ignored until the next valid header.
func (n *Normaliser) Parse(ctx context.Context, r io.Reader, path string) ([]domain.Record, error) {
	var (
		records []domain.Record
		current *message
	)

	flush := func() {
		if current == nil {
			return
		}
		text := strings.Join(current.lines, "\n")
		if domain.WordCount(text) >= domain.MinChatWords {
			records = append(records, domain.Record{
				ID:   uuid.New().String(),
				Text: text,
				Metadata: domain.Metadata{
					domain.MetaSource:    domain.SourceWhatsApp.String(),
					domain.MetaTimestamp: current.timestamp,
					domain.MetaSender:    current.sender,
					domain.MetaPath:      path,
				},
			})
		}
		current = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := headerPattern.FindStringSubmatch(line); m != nil {
			flush()

			ts, err := parseTimestamp(m[1])
			if err != nil {
				logger.Warn("Line %d: %v; message dropped", lineNo, err)
				continue
			}
			current = &message{
				sender:    strings.TrimSpace(m[2]),
				timestamp: ts.Format(domain.TimestampLayout),
				lines:     []string{strings.TrimSpace(m[3])},
			}
			continue
		}

		if current != nil {
			current.lines = append(current.lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read chat export: %w", err)
	}

	flush()
	return records, nil
}
