package engines

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/dgnsrekt/vocalize/tts"
)

func TestMockSynthesize(t *testing.T) {
	engine := NewMock(tts.MockConfig{WordsPerMinute: 150})

	// 150 words at 150 wpm is one minute of audio.
	words := strings.TrimSpace(strings.Repeat("word ", 150))
	result, err := engine.Synthesize(context.Background(), words)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if result.Format != "mp3" {
		t.Errorf("Expected mp3 format, got %q", result.Format)
	}
	if len(result.Audio) == 0 {
		t.Fatal("Expected audio bytes")
	}

	// The silent frames must scan back to roughly the modeled length.
	if math.Abs(result.Duration-60) > 0.1 {
		t.Errorf("Expected about 60s of audio, got %g", result.Duration)
	}
	if got := tts.MP3Duration(result.Audio); math.Abs(got-result.Duration) > 1e-9 {
		t.Errorf("Reported duration %g does not match scanned duration %g", result.Duration, got)
	}
}

func TestMockEmptyText(t *testing.T) {
	engine := NewMock(tts.MockConfig{WordsPerMinute: 150})

	_, err := engine.Synthesize(context.Background(), "   ")
	if err == nil {
		t.Fatal("Expected error for empty text")
	}
	if !errors.Is(err, tts.ErrEmptyText) {
		t.Errorf("Expected ErrEmptyText, got %v", err)
	}

	var synthErr *tts.SynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("Expected SynthesisError, got %T", err)
	}
	if synthErr.Engine != "mock" {
		t.Errorf("Expected engine mock, got %q", synthErr.Engine)
	}
}

func TestMockAlwaysFails(t *testing.T) {
	engine := NewMock(tts.MockConfig{WordsPerMinute: 150, FailureRate: 1.0})

	_, err := engine.Synthesize(context.Background(), "some text")
	if !errors.Is(err, tts.ErrGenerationFailed) {
		t.Errorf("Expected ErrGenerationFailed, got %v", err)
	}
}

func TestMockCancelledContext(t *testing.T) {
	engine := NewMock(tts.MockConfig{WordsPerMinute: 150})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Synthesize(ctx, "some text"); err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}

func TestMockAvailable(t *testing.T) {
	if !NewMock(tts.MockConfig{}).Available() {
		t.Error("Mock engine should always be available")
	}
}
