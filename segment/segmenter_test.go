package segment

import (
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"
)

func testOptions(max, min int) Options {
	return Options{MaxSegmentLength: max, MinSegmentLength: min, WordsPerMinute: 150}
}

func TestSplitScenario(t *testing.T) {
	input := `Dr. Smith arrived. "We won," she said.`
	segments := Split(input, testOptions(100, 1))

	if len(segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(segments))
	}

	if segments[0].Text != "Dr. Smith arrived." {
		t.Errorf("Segment 0: expected %q, got %q", "Dr. Smith arrived.", segments[0].Text)
	}
	if segments[0].IsQuote {
		t.Error("Segment 0 should not be quoted")
	}

	if segments[1].Text != `"We won," she said.` {
		t.Errorf("Segment 1: expected %q, got %q", `"We won," she said.`, segments[1].Text)
	}
	if !segments[1].IsQuote {
		t.Error("Segment 1 should be quoted")
	}
}

func TestSplitEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		want  int
	}{
		{
			name:  "empty input",
			input: "",
			opts:  testOptions(100, 1),
			want:  0,
		},
		{
			name:  "whitespace only",
			input: "   \n\t  ",
			opts:  testOptions(100, 1),
			want:  0,
		},
		{
			name:  "shorter than minimum",
			input: "Hi.",
			opts:  testOptions(100, 20),
			want:  1,
		},
		{
			name:  "one sentence per segment",
			input: "First sentence here. Second sentence here. Third sentence here.",
			opts:  testOptions(100, 1),
			want:  3,
		},
		{
			name:  "sentences accumulate to minimum",
			input: "One. Two. Three. Four.",
			opts:  testOptions(100, 20),
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := Split(tt.input, tt.opts)
			if len(segments) != tt.want {
				t.Errorf("Expected %d segments, got %d", tt.want, len(segments))
				for _, s := range segments {
					t.Logf("  [%d]: %q", s.Index, s.Text)
				}
			}
		})
	}
}

func TestSplitMaxLengthEnforcement(t *testing.T) {
	// A single 500-character token with no whitespace must be
	// hard-truncated into pieces of at most 50 characters.
	input := strings.Repeat("a", 500)
	segments := Split(input, testOptions(50, 1))

	if len(segments) != 10 {
		t.Fatalf("Expected 10 segments, got %d", len(segments))
	}
	for _, s := range segments {
		if n := s.CharCount(); n > 50 {
			t.Errorf("Segment %d has %d characters, limit is 50", s.Index, n)
		}
	}
}

func TestSplitForcedWhitespaceBreak(t *testing.T) {
	// One long sentence with whitespace: splits must land on spaces,
	// never inside a word.
	input := strings.TrimSpace(strings.Repeat("lorem ipsum dolor sit amet ", 20))
	segments := Split(input, testOptions(60, 1))

	for _, s := range segments {
		if s.CharCount() > 60 {
			t.Errorf("Segment %d exceeds limit: %d chars", s.Index, s.CharCount())
		}
		if strings.HasPrefix(s.Text, " ") || strings.HasSuffix(s.Text, " ") {
			t.Errorf("Segment %d has surrounding whitespace: %q", s.Index, s.Text)
		}
	}

	// All words survive intact.
	var words []string
	for _, s := range segments {
		words = append(words, strings.Fields(s.Text)...)
	}
	if len(words) != 100 {
		t.Errorf("Expected 100 words after splitting, got %d", len(words))
	}
	for _, w := range words {
		if w != "lorem" && w != "ipsum" && w != "dolor" && w != "sit" && w != "amet" {
			t.Errorf("Word broken by forced split: %q", w)
		}
	}
}

func TestSplitLosslessPartition(t *testing.T) {
	inputs := []string{
		"Hello world. How are you? I'm fine!",
		`Dr. Smith arrived. "We won," she said.`,
		"One long paragraph with no terminal punctuation at all just words",
		"Spaced.    Out.   Sentences.",
		"Unicode héllo wörld. Ünicode again! Encore une fois.",
	}

	for _, input := range inputs {
		segments := Split(input, testOptions(40, 1))

		for i, s := range segments {
			if input[s.Start:s.End] != s.Text {
				t.Errorf("Segment %d text does not match offsets: %q vs %q",
					i, input[s.Start:s.End], s.Text)
			}
			if s.Index != i {
				t.Errorf("Segment %d has index %d", i, s.Index)
			}
		}

		// Everything outside the segments is whitespace, so joining the
		// segment texts with the original gaps reconstructs the input.
		var rebuilt strings.Builder
		prev := 0
		for _, s := range segments {
			gap := input[prev:s.Start]
			if strings.TrimSpace(gap) != "" {
				t.Errorf("Non-whitespace between segments: %q", gap)
			}
			rebuilt.WriteString(gap)
			rebuilt.WriteString(s.Text)
			prev = s.End
		}
		rebuilt.WriteString(input[prev:])

		if rebuilt.String() != input {
			t.Errorf("Reconstruction mismatch:\n  input:   %q\n  rebuilt: %q", input, rebuilt.String())
		}
	}
}

func TestSplitTrailingRemainderMerges(t *testing.T) {
	input := "This is a full sentence of reasonable length. Tiny end."
	segments := Split(input, testOptions(200, 20))

	if len(segments) != 1 {
		t.Fatalf("Expected trailing remainder to merge, got %d segments", len(segments))
	}
	if !strings.HasSuffix(segments[0].Text, "Tiny end.") {
		t.Errorf("Merged segment missing remainder: %q", segments[0].Text)
	}
}

func TestSplitQuoteClassification(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []bool
	}{
		{
			name:  "balanced quote marks segment",
			input: `He said "hello" and left.`,
			want:  []bool{true},
		},
		{
			name:  "unterminated quote degrades to narrative",
			input: `He said "hello and left.`,
			want:  []bool{false},
		},
		{
			name:  "mixed narrative and quote",
			input: `The march continued for days. "We are close now," the guide promised.`,
			want:  []bool{false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := Split(tt.input, testOptions(100, 1))
			if len(segments) != len(tt.want) {
				t.Fatalf("Expected %d segments, got %d", len(tt.want), len(segments))
			}
			for i, want := range tt.want {
				if segments[i].IsQuote != want {
					t.Errorf("Segment %d: expected IsQuote=%v, got %v (%q)",
						i, want, segments[i].IsQuote, segments[i].Text)
				}
			}
		})
	}
}

func TestSplitPreview(t *testing.T) {
	input := "The quick brown fox jumps over the lazy dog and keeps on running far away."
	segments := Split(input, testOptions(200, 1))

	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}
	p := segments[0].Preview
	if p == "" {
		t.Fatal("Preview is empty")
	}
	if utf8.RuneCountInString(p) > 49 {
		t.Errorf("Preview too long: %q", p)
	}
	if !strings.HasPrefix(input, strings.TrimRight(p, "…")) {
		t.Errorf("Preview %q is not a prefix of the text", p)
	}
}

func TestSplitRuneSafety(t *testing.T) {
	// Hard truncation must never split a multi-byte rune.
	input := strings.Repeat("ü", 120)
	segments := Split(input, testOptions(50, 1))

	for _, s := range segments {
		for _, r := range s.Text {
			if r == unicode.ReplacementChar {
				t.Fatalf("Segment %d contains a broken rune: %q", s.Index, s.Text)
			}
		}
	}
}
