// Package segment partitions cleaned input text into speakable segments
// and derives per-segment playback timings.
package segment

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Segment is the unit of synchronization: a contiguous piece of the
// cleaned input text with an assigned playback time window.
type Segment struct {
	// Index is the 0-based ordinal position. Assigned once at split
	// time and never changed afterwards.
	Index int `json:"index"`

	// Text is the exact substring of the cleaned input belonging to
	// this segment, without surrounding whitespace.
	Text string `json:"text"`

	// Start and End are byte offsets of Text within the cleaned input.
	// The gaps between one segment's End and the next segment's Start
	// contain only whitespace, so the original text can be
	// reconstructed from the offsets.
	Start int `json:"-"`
	End   int `json:"-"`

	// IsQuote reports whether the segment was classified as quoted
	// speech by the boundary detector.
	IsQuote bool `json:"isQuote"`

	// StartTime and EndTime are playback seconds. Zero until a timing
	// pass runs; afterwards EndTime > StartTime and adjacent segments
	// share boundaries exactly.
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`

	// Preview is a short excerpt of Text used for navigation.
	Preview string `json:"preview"`
}

// CharCount returns the number of characters in the segment text. It
// is the weight used by the timing allocator.
func (s Segment) CharCount() int {
	return len([]rune(s.Text))
}

// WordCount returns the number of whitespace-separated words.
func (s Segment) WordCount() int {
	return len(strings.Fields(s.Text))
}

const (
	previewWords = 8
	previewWidth = 48
)

// makePreview derives the navigation excerpt from the segment text.
func makePreview(text string) string {
	words := strings.Fields(text)
	if len(words) > previewWords {
		words = words[:previewWords]
	}
	return runewidth.Truncate(strings.Join(words, " "), previewWidth, "…")
}

// Options controls segmentation and timing estimation. Callers pass it
// explicitly; there is no ambient configuration state.
type Options struct {
	// MaxSegmentLength is the hard upper bound on segment length in
	// characters. Sentences longer than this are force-split.
	MaxSegmentLength int

	// MinSegmentLength is the soft lower bound. A trailing remainder
	// shorter than this is merged into the previous segment.
	MinSegmentLength int

	// WordsPerMinute is the speaking rate used when timings must be
	// estimated before audio exists.
	WordsPerMinute float64
}

// DefaultOptions returns segmentation options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxSegmentLength: 300,
		MinSegmentLength: 20,
		WordsPerMinute:   150,
	}
}

// Validate checks if the options are usable.
func (o Options) Validate() error {
	if o.MaxSegmentLength < 1 {
		return fmt.Errorf("max segment length must be positive, got %d", o.MaxSegmentLength)
	}
	if o.MinSegmentLength < 0 {
		return fmt.Errorf("min segment length cannot be negative, got %d", o.MinSegmentLength)
	}
	if o.MinSegmentLength > o.MaxSegmentLength {
		return fmt.Errorf("min segment length %d exceeds max %d", o.MinSegmentLength, o.MaxSegmentLength)
	}
	if o.WordsPerMinute < 50 || o.WordsPerMinute > 500 {
		return fmt.Errorf("words_per_minute must be between 50 and 500, got %g", o.WordsPerMinute)
	}
	return nil
}
