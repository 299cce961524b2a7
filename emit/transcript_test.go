package emit

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/vocalize/segment"
)

func testMetadata(segs []segment.Segment, duration float64) segment.Metadata {
	meta := segment.BuildMetadata(segs, duration, segment.DefaultOptions())
	// Pin the generation time so repeated emitter calls compare equal.
	meta.GeneratedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	meta.Title = "Field Notes"
	meta.Engine = "mock"
	meta.Voice = "narrator"
	return meta
}

func TestTranscriptStructure(t *testing.T) {
	segs := timedSegments()
	out := string(Transcript(segs, testMetadata(segs, 9.5)))

	for _, want := range []string{
		"# Field Notes",
		"- Engine: `mock`",
		"- Voice: `narrator`",
		"## Contents",
		"## Transcript",
		"**[00:00 → ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Transcript missing %q:\n%s", want, out)
		}
	}

	// One contents entry per segment, keyed by preview.
	for _, s := range segs {
		if !strings.Contains(out, s.Preview) {
			t.Errorf("Contents missing preview %q", s.Preview)
		}
	}
}

func TestTranscriptQuoteStyling(t *testing.T) {
	segs := timedSegments()
	out := string(Transcript(segs, testMetadata(segs, 9.5)))

	if !strings.Contains(out, `> "A quoted line," someone said.`) {
		t.Errorf("Quoted segment not rendered as blockquote:\n%s", out)
	}
	if strings.Contains(out, "> First subtitle block.") {
		t.Error("Narrative segment rendered as blockquote")
	}
}

func TestTranscriptTimingUnavailableNote(t *testing.T) {
	segs := []segment.Segment{{Text: "Some text."}}
	meta := segment.BuildMetadata(segs, 0, segment.DefaultOptions())

	out := string(Transcript(segs, meta))
	if !strings.Contains(out, "timing unavailable") {
		t.Errorf("Expected timing-unavailable note:\n%s", out)
	}
}

func TestTranscriptEstimatedNote(t *testing.T) {
	segs := timedSegments()
	meta := testMetadata(segs, 9.5)
	meta.TimingEstimated = true

	out := string(Transcript(segs, meta))
	if !strings.Contains(out, "estimated from the speaking rate") {
		t.Errorf("Expected estimation note:\n%s", out)
	}
}

func TestTranscriptEmpty(t *testing.T) {
	meta := segment.BuildMetadata(nil, 0, segment.DefaultOptions())
	out := string(Transcript(nil, meta))

	if !strings.Contains(out, "# Transcript") {
		t.Errorf("Expected default title:\n%s", out)
	}
	if !strings.Contains(out, "No speakable text") {
		t.Errorf("Expected empty-document marker:\n%s", out)
	}
}

func TestTranscriptWrapsLongLines(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("some fairly ordinary words ", 10))
	segs := segment.AssignTimings([]segment.Segment{{Text: long, Preview: "some fairly"}}, 5)

	out := string(Transcript(segs, testMetadata(segs, 5)))
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "some") && len(line) > transcriptWidth {
			t.Errorf("Body line exceeds wrap width: %q", line)
		}
	}
}

func TestTranscriptIdempotent(t *testing.T) {
	segs := timedSegments()
	meta := testMetadata(segs, 9.5)

	if !bytes.Equal(Transcript(segs, meta), Transcript(segs, meta)) {
		t.Error("Transcript output differs across identical calls")
	}
}
