// Package segmenter splits extracted text into paragraph candidates.
package segmenter

import (
	"regexp"
	"strings"
)

// DefaultMinWords is the default minimum number of words a segment must have.
const DefaultMinWords = 10

// blankLine matches one or more blank lines, including whitespace-only ones.
var blankLine = regexp.MustCompile(`\n[ \t\r]*\n`)

// Processor splits text on blank-line boundaries and drops short segments.
type Processor struct {
	minWords int
}

// Option configures the segmenter.
type Option func(*Processor)

// WithMinWords sets the minimum word count for a segment to be kept.
func WithMinWords(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.minWords = n
		}
	}
}

// New creates a new segmenter with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		minWords: DefaultMinWords,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Process returns the trimmed segments of text that meet the word minimum,
// in document order.
func (p *Processor) Process(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	parts := blankLine.Split(strings.ReplaceAll(text, "\r\n", "\n"), -1)
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if len(strings.Fields(part)) < p.minWords {
			continue
		}
		segments = append(segments, part)
	}

	return segments
}
