package segment

import (
	"math"
	"strings"
	"testing"
)

func segmentsWithText(texts ...string) []Segment {
	segs := make([]Segment, len(texts))
	for i, txt := range texts {
		segs[i] = Segment{Index: i, Text: txt}
	}
	return segs
}

func TestAssignTimingsProportional(t *testing.T) {
	// 30 and 10 characters over 10 seconds: 7.5s and 2.5s.
	segs := segmentsWithText(
		strings.Repeat("a", 30),
		strings.Repeat("b", 10),
	)

	segs = AssignTimings(segs, 10)

	if math.Abs(segs[0].StartTime-0) > 1e-9 || math.Abs(segs[0].EndTime-7.5) > 1e-9 {
		t.Errorf("Segment 0: expected [0, 7.5], got [%g, %g]", segs[0].StartTime, segs[0].EndTime)
	}
	if math.Abs(segs[1].StartTime-7.5) > 1e-9 || math.Abs(segs[1].EndTime-10) > 1e-9 {
		t.Errorf("Segment 1: expected [7.5, 10], got [%g, %g]", segs[1].StartTime, segs[1].EndTime)
	}
}

func TestAssignTimingsInvariants(t *testing.T) {
	segs := Split(
		"First sentence of the document. Second one follows! A third, longer sentence rounds out the test. Short end.",
		testOptions(60, 1),
	)
	if len(segs) < 2 {
		t.Fatalf("Need several segments, got %d", len(segs))
	}

	total := 37.3
	segs = AssignTimings(segs, total)

	for i, s := range segs {
		if s.EndTime <= s.StartTime {
			t.Errorf("Segment %d has non-positive width: [%g, %g]", i, s.StartTime, s.EndTime)
		}
		if i > 0 && segs[i-1].EndTime != s.StartTime {
			t.Errorf("Gap or overlap between segments %d and %d: %g vs %g",
				i-1, i, segs[i-1].EndTime, s.StartTime)
		}
	}

	if last := segs[len(segs)-1]; last.EndTime != total {
		t.Errorf("Final end time not clamped to total: %g vs %g", last.EndTime, total)
	}
}

func TestAssignTimingsDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		segs  []Segment
		total float64
	}{
		{name: "zero duration", segs: segmentsWithText("hello", "world"), total: 0},
		{name: "negative duration", segs: segmentsWithText("hello"), total: -4},
		{name: "empty segments", segs: nil, total: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := AssignTimings(tt.segs, tt.total)
			for i, s := range segs {
				if s.StartTime != 0 || s.EndTime != 0 {
					t.Errorf("Segment %d: expected zero-width timing, got [%g, %g]",
						i, s.StartTime, s.EndTime)
				}
			}
		})
	}
}

func TestEstimateTimings(t *testing.T) {
	// 150 words at 150 words per minute is exactly one minute.
	words := make([]string, 150)
	for i := range words {
		words[i] = "word"
	}
	segs := segmentsWithText(
		strings.Join(words[:100], " "),
		strings.Join(words[100:], " "),
	)

	segs, total := EstimateTimings(segs, 150)

	if math.Abs(total-60) > 1e-9 {
		t.Errorf("Expected 60s estimate, got %g", total)
	}
	if last := segs[len(segs)-1]; last.EndTime != total {
		t.Errorf("Final end time %g does not match total %g", last.EndTime, total)
	}
}

func TestEstimateTimingsInvalidRate(t *testing.T) {
	segs, total := EstimateTimings(segmentsWithText("some text"), 0)
	if total != 0 {
		t.Errorf("Expected zero total for invalid rate, got %g", total)
	}
	if segs[0].StartTime != 0 || segs[0].EndTime != 0 {
		t.Errorf("Expected zero-width timing, got [%g, %g]", segs[0].StartTime, segs[0].EndTime)
	}
}

func TestSegmentAt(t *testing.T) {
	segs := segmentsWithText(
		strings.Repeat("a", 30),
		strings.Repeat("b", 10),
	)
	segs = AssignTimings(segs, 10)

	tests := []struct {
		name string
		at   float64
		want int
	}{
		{name: "start of first", at: 0, want: 0},
		{name: "inside first", at: 3.2, want: 0},
		{name: "shared boundary belongs to the next segment", at: 7.5, want: 1},
		{name: "inside second", at: 9.9, want: 1},
		{name: "final interval closed on the right", at: 10, want: 1},
		{name: "past the end", at: 10.001, want: -1},
		{name: "before the start", at: -1, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentAt(segs, tt.at); got != tt.want {
				t.Errorf("SegmentAt(%g): expected %d, got %d", tt.at, tt.want, got)
			}
		})
	}
}

func TestSegmentAtEmpty(t *testing.T) {
	if got := SegmentAt(nil, 1); got != -1 {
		t.Errorf("Expected -1 for empty slice, got %d", got)
	}
}

func TestBuildMetadata(t *testing.T) {
	segs := Split("Hello brave new world. Another sentence follows here.", testOptions(100, 1))
	meta := BuildMetadata(segs, 12.5, DefaultOptions())

	if meta.Duration != 12.5 {
		t.Errorf("Expected duration 12.5, got %g", meta.Duration)
	}
	if meta.SegmentCount != len(segs) {
		t.Errorf("Expected %d segments, got %d", len(segs), meta.SegmentCount)
	}
	if meta.WordCount != 8 {
		t.Errorf("Expected 8 words, got %d", meta.WordCount)
	}
	if meta.TimingUnavailable {
		t.Error("Timing should be available")
	}
	if meta.ReadingTime <= 0 {
		t.Error("Expected positive reading time")
	}
}

func TestBuildMetadataDegenerate(t *testing.T) {
	meta := BuildMetadata(nil, 0, DefaultOptions())
	if !meta.TimingUnavailable {
		t.Error("Expected TimingUnavailable for empty conversion")
	}
}
