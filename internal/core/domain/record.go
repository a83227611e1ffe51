package domain

import "strings"

// SourceType identifies where a record was ingested from.
type SourceType string

// Supported ingestion sources.
const (
	// SourceWebsite is text crawled from a website.
	SourceWebsite SourceType = "website"

	// SourceWhatsApp is a message imported from a WhatsApp chat export.
	SourceWhatsApp SourceType = "whatsapp"
)

// IsValid returns true if the source type has a normaliser.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceWebsite, SourceWhatsApp:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s SourceType) String() string {
	return string(s)
}

// AllSourceTypes returns every supported ingestion source.
func AllSourceTypes() []SourceType {
	return []SourceType{SourceWebsite, SourceWhatsApp}
}

// Minimum word counts below which candidate text is discarded.
const (
	MinWebsiteWords = 10
	MinChatWords    = 3
)

// Metadata keys carried by records.
const (
	MetaSource    = "source"
	MetaPath      = "path"
	MetaSender    = "sender"
	MetaTimestamp = "timestamp"
)

// TimestampLayout is the ISO-8601 layout used for chat record timestamps.
const TimestampLayout = "2006-01-02T15:04:05"

// Metadata holds the structured attributes of a record.
type Metadata map[string]string

// Source returns the record's source tag.
func (m Metadata) Source() string {
	return m[MetaSource]
}

// Path returns the origin URL or file path, or "N/A" when unknown.
func (m Metadata) Path() string {
	if p := m[MetaPath]; p != "" {
		return p
	}
	return "N/A"
}

// Clone returns an independent copy of the metadata.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Record is a retrievable unit of text.
// Records are immutable once created by a normaliser.
type Record struct {
	// ID is an opaque unique identifier assigned at creation.
	ID string `json:"id"`

	// Text is the natural-language content.
	Text string `json:"text"`

	// Metadata holds at least source and path.
	Metadata Metadata `json:"metadata"`
}

// WordCount returns the number of whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
