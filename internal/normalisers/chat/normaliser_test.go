package chat

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bizassist/internal/core/domain"
)

func parse(t *testing.T, content string) []domain.Record {
	t.Helper()
	records, err := New().Parse(context.Background(), strings.NewReader(content), "chat.txt")
	require.NoError(t, err)
	return records
}

func TestNormaliser_SourceType(t *testing.T) {
	assert.Equal(t, domain.SourceWhatsApp, New().SourceType())
}

func TestParse_ContinuationLines(t *testing.T) {
	records := parse(t, "[12/05/23, 14:30] - Alice: Meeting moved to 3pm\nPlease confirm\n")

	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "Meeting moved to 3pm\nPlease confirm", r.Text)
	assert.Equal(t, "whatsapp", r.Metadata[domain.MetaSource])
	assert.Equal(t, "Alice", r.Metadata[domain.MetaSender])
	assert.Equal(t, "2023-05-12T14:30:00", r.Metadata[domain.MetaTimestamp])
	assert.Equal(t, "chat.txt", r.Metadata[domain.MetaPath])
	assert.NotEmpty(t, r.ID)
}

func TestParse_MultipleMessages(t *testing.T) {
	content := `12/05/23, 14:30 - Alice: We open at nine tomorrow
12/05/23, 14:31 - Bob: Thanks for letting me know
12/05/23, 14:32 - Alice: ok
12/05/23, 14:33 - Carol Smith: See you all there then
`
	records := parse(t, content)

	require.Len(t, records, 3)
	assert.Equal(t, "Alice", records[0].Metadata[domain.MetaSender])
	assert.Equal(t, "Bob", records[1].Metadata[domain.MetaSender])
	assert.Equal(t, "Carol Smith", records[2].Metadata[domain.MetaSender])
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestParse_ShortMessagesDropped(t *testing.T) {
	records := parse(t, "12/05/23, 14:30 - Alice: ok thanks\n12/05/23, 14:31 - Bob: <Media omitted>\n")
	assert.Empty(t, records)
}

func TestParse_LeadingLinesIgnored(t *testing.T) {
	content := "Messages are end-to-end encrypted and nobody can read them\n\n" +
		"12/05/23, 14:30 - Alice: The delivery arrives on Friday\n"
	records := parse(t, content)

	require.Len(t, records, 1)
	assert.Equal(t, "The delivery arrives on Friday", records[0].Text)
}

func TestParse_BlankLinesSkipped(t *testing.T) {
	content := "12/05/23, 14:30 - Alice: First line of the note\n\n   \nSecond line here\n"
	records := parse(t, content)

	require.Len(t, records, 1)
	assert.Equal(t, "First line of the note\nSecond line here", records[0].Text)
}

func TestParse_BadTimestampDropsMessage(t *testing.T) {
	content := `12/05/23, 14:30 - Alice: The first message is fine
99/99/23, 14:31 - Bob: This one has a broken date
and a continuation that goes nowhere
12/05/23, 14:32 - Carol: The third message is fine too
`
	records := parse(t, content)

	require.Len(t, records, 2)
	assert.Equal(t, "The first message is fine", records[0].Text)
	assert.Equal(t, "The third message is fine too", records[1].Text)
}

func TestParse_ByteOrderMark(t *testing.T) {
	records := parse(t, "\ufeff12/05/23, 14:30 - Alice: Hello there from the shop\n")
	require.Len(t, records, 1)
	assert.Equal(t, "Alice", records[0].Metadata[domain.MetaSender])
}

func TestParse_CRLF(t *testing.T) {
	records := parse(t, "12/05/23, 14:30 - Alice: Order number is ready\r\nPick up anytime\r\n")
	require.Len(t, records, 1)
	assert.Equal(t, "Order number is ready\nPick up anytime", records[0].Text)
}

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, parse(t, ""))
}

func TestParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var b strings.Builder
	for i := 0; i < 1500; i++ {
		b.WriteString("12/05/23, 14:30 - Alice: A message with enough words\n")
	}

	_, err := New().Parse(ctx, strings.NewReader(b.String()), "chat.txt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImport_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.txt")
	require.NoError(t, os.WriteFile(path, []byte("12/05/23, 14:30 - Alice: Prices go up next month\n"), 0o600))

	records, err := New().Normalise(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, path, records[0].Metadata[domain.MetaPath])
}

func TestImport_MissingFile(t *testing.T) {
	_, err := New().Import(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
