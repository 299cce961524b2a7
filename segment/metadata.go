package segment

import (
	"time"
)

// Metadata is a read-only snapshot of a finished conversion, computed
// once from the finalized segments plus the external audio duration and
// handed to every artifact emitter.
type Metadata struct {
	Title   string `json:"title,omitempty"`
	Engine  string `json:"engine,omitempty"`
	Voice   string `json:"voice,omitempty"`
	Source  string `json:"source,omitempty"`
	AudioFile string `json:"audioFile,omitempty"`

	Duration     float64 `json:"duration"`
	WordCount    int     `json:"wordCount"`
	CharCount    int     `json:"charCount"`
	SegmentCount int     `json:"segmentCount"`

	// ReadingTime is how long a person would take to read the text
	// silently, derived from the configured words-per-minute rate.
	ReadingTime time.Duration `json:"readingTime"`

	GeneratedAt time.Time `json:"generatedAt"`

	// TimingEstimated is set when timings came from the words-per-
	// minute model instead of real audio duration.
	TimingEstimated bool `json:"timingEstimated,omitempty"`

	// TimingUnavailable is set when the duration was non-positive and
	// the segments carry zero-width timings, so emitters can annotate
	// their output accordingly.
	TimingUnavailable bool `json:"timingUnavailable,omitempty"`
}

// BuildMetadata computes the document snapshot for a finalized segment
// slice. totalSeconds is the audio duration reported by the synthesis
// provider, or the estimate when none exists yet.
func BuildMetadata(segments []Segment, totalSeconds float64, opts Options) Metadata {
	meta := Metadata{
		Duration:     totalSeconds,
		SegmentCount: len(segments),
		GeneratedAt:  time.Now(),
	}

	for _, s := range segments {
		meta.WordCount += s.WordCount()
		meta.CharCount += s.CharCount()
	}

	wpm := opts.WordsPerMinute
	if wpm <= 0 {
		wpm = DefaultOptions().WordsPerMinute
	}
	meta.ReadingTime = time.Duration(float64(meta.WordCount) / wpm * float64(time.Minute))

	if totalSeconds <= 0 || len(segments) == 0 {
		meta.TimingUnavailable = true
	}

	return meta
}
