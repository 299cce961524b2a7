package engines

import (
	"context"
	"math"
	"math/rand"
	"strings"

	"github.com/dgnsrekt/vocalize/tts"
)

// Mock is a deterministic engine for tests and offline runs. It emits
// structurally valid silent MP3 frames whose scanned duration matches
// the words-per-minute model, so the rest of the pipeline behaves
// exactly as with a real provider.
type Mock struct {
	cfg tts.MockConfig
}

// NewMock creates the mock engine.
func NewMock(cfg tts.MockConfig) *Mock {
	if cfg.WordsPerMinute == 0 {
		cfg.WordsPerMinute = 150
	}
	return &Mock{cfg: cfg}
}

// Name implements tts.Engine.
func (e *Mock) Name() string { return "mock" }

// Available implements tts.Engine; the mock always runs.
func (e *Mock) Available() bool { return true }

// Synthesize implements tts.Engine.
func (e *Mock) Synthesize(ctx context.Context, text string) (*tts.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, tts.NewSynthesisError(e.Name(), "synthesize", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, tts.NewSynthesisError(e.Name(), "synthesize", tts.ErrEmptyText)
	}
	if e.cfg.FailureRate > 0 && rand.Float64() < e.cfg.FailureRate {
		return nil, tts.NewSynthesisError(e.Name(), "synthesize", tts.ErrGenerationFailed)
	}

	words := len(strings.Fields(text))
	seconds := float64(words) / float64(e.cfg.WordsPerMinute) * 60

	audio := silentMP3(seconds)
	return &tts.Result{
		Audio:    audio,
		Format:   "mp3",
		Duration: tts.MP3Duration(audio),
	}, nil
}

// Silent MPEG1 layer III frame: 128 kbit/s at 44100 Hz, 1152 samples,
// 417 bytes.
const (
	mockFrameLen     = 417
	mockFrameSeconds = 1152.0 / 44100.0
)

// silentMP3 builds a stream of empty frames covering at least the
// requested duration.
func silentMP3(seconds float64) []byte {
	frames := int(math.Ceil(seconds / mockFrameSeconds))
	if frames < 1 {
		frames = 1
	}

	frame := make([]byte, mockFrameLen)
	frame[0] = 0xFF
	frame[1] = 0xFB // MPEG1, layer III, no CRC
	frame[2] = 0x90 // 128 kbit/s, 44100 Hz, no padding

	out := make([]byte, 0, frames*mockFrameLen)
	for i := 0; i < frames; i++ {
		out = append(out, frame...)
	}
	return out
}
