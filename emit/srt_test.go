package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dgnsrekt/vocalize/segment"
)

func timedSegments() []segment.Segment {
	segs := []segment.Segment{
		{Index: 0, Text: "First subtitle block.", Preview: "First subtitle block."},
		{Index: 1, Text: `"A quoted line," someone said.`, IsQuote: true, Preview: `"A quoted line," someone said.`},
		{Index: 2, Text: "The last block.", Preview: "The last block."},
	}
	return segment.AssignTimings(segs, 9.5)
}

func TestSRTFormat(t *testing.T) {
	out := string(SRT(timedSegments(), segment.Metadata{}))

	blocks := strings.Split(strings.TrimSpace(out), "\n\n")
	if len(blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d:\n%s", len(blocks), out)
	}

	for i, block := range blocks {
		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			t.Fatalf("Block %d too short: %q", i, block)
		}
		if want := []string{"1", "2", "3"}[i]; lines[0] != want {
			t.Errorf("Block %d: expected counter %s, got %q", i, want, lines[0])
		}
		if !strings.Contains(lines[1], " --> ") {
			t.Errorf("Block %d: missing timing line: %q", i, lines[1])
		}
	}

	if !strings.HasPrefix(out, "1\n00:00:00,000 --> ") {
		t.Errorf("Unexpected first block start: %q", out[:40])
	}
}

func TestSRTCountersIgnoreSegmentIndex(t *testing.T) {
	// Counters restart at 1 even when the segment indices do not.
	segs := timedSegments()
	for i := range segs {
		segs[i].Index += 7
	}

	out := string(SRT(segs, segment.Metadata{}))
	if !strings.HasPrefix(out, "1\n") {
		t.Errorf("Expected counter to start at 1, got %q", strings.SplitN(out, "\n", 2)[0])
	}
}

func TestSRTTruncatesMilliseconds(t *testing.T) {
	segs := []segment.Segment{
		{Text: "x", StartTime: 0, EndTime: 1.23456789},
	}
	out := string(SRT(segs, segment.Metadata{}))
	if !strings.Contains(out, "00:00:01,234") {
		t.Errorf("Expected truncated milliseconds 234, got:\n%s", out)
	}
}

func TestSRTIdempotent(t *testing.T) {
	segs := timedSegments()
	meta := segment.BuildMetadata(segs, 9.5, segment.DefaultOptions())

	first := SRT(segs, meta)
	second := SRT(segs, meta)
	if !bytes.Equal(first, second) {
		t.Error("SRT output differs across identical calls")
	}
}

func TestSRTEmpty(t *testing.T) {
	out := SRT(nil, segment.Metadata{})
	if len(out) != 0 {
		t.Errorf("Expected empty output, got %q", out)
	}
}

func TestSRTTimestampFormat(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{name: "zero", seconds: 0, want: "00:00:00,000"},
		{name: "sub-second", seconds: 0.5, want: "00:00:00,500"},
		{name: "minutes", seconds: 83.25, want: "00:01:23,250"},
		{name: "hours", seconds: 3723.5, want: "01:02:03,500"},
		{name: "negative clamps to zero", seconds: -1, want: "00:00:00,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := srtTimestamp(tt.seconds); got != tt.want {
				t.Errorf("srtTimestamp(%g): expected %q, got %q", tt.seconds, tt.want, got)
			}
		})
	}
}
