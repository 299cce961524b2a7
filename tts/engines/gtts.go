package engines

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/vocalize/tts"
)

// gttsMaxChars is the per-request limit Google applies to the
// translate TTS endpoint behind gtts-cli.
const gttsMaxChars = 5000

// GTTS synthesizes speech by shelling out to gtts-cli, which needs no
// API key. Output is MP3 on stdout.
type GTTS struct {
	cfg     tts.GTTSConfig
	limiter *rate.Limiter

	// lookPath is swappable for tests.
	lookPath func(string) (string, error)
}

// NewGTTS creates the gtts-cli engine.
func NewGTTS(cfg tts.GTTSConfig) (*GTTS, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &GTTS{
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		lookPath: exec.LookPath,
	}, nil
}

// Name implements tts.Engine.
func (e *GTTS) Name() string { return "gtts" }

// Available reports whether gtts-cli is on the PATH.
func (e *GTTS) Available() bool {
	_, err := e.lookPath("gtts-cli")
	return err == nil
}

// Synthesize implements tts.Engine.
func (e *GTTS) Synthesize(ctx context.Context, text string) (*tts.Result, error) {
	if !e.Available() {
		return nil, tts.NewSynthesisError(e.Name(), "locate gtts-cli", tts.ErrEngineNotAvailable)
	}

	chunks := requestChunks(text, gttsMaxChars)
	if len(chunks) == 0 {
		return nil, tts.NewSynthesisError(e.Name(), "split", tts.ErrEmptyText)
	}

	var audio bytes.Buffer
	for i, chunk := range chunks {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, tts.NewSynthesisError(e.Name(), "rate limit", err)
		}

		log.Debug("Synthesizing chunk", "engine", e.Name(), "chunk", i+1, "of", len(chunks))
		data, err := e.run(ctx, chunk)
		if err != nil {
			return nil, tts.NewSynthesisError(e.Name(), fmt.Sprintf("chunk %d/%d", i+1, len(chunks)), err)
		}
		audio.Write(data)
	}

	out := audio.Bytes()
	return &tts.Result{
		Audio:    out,
		Format:   "mp3",
		Duration: tts.MP3Duration(out),
	}, nil
}

// run invokes gtts-cli once with a bounded context and returns the MP3
// bytes from stdout.
func (e *GTTS) run(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	args := []string{text, "-l", e.cfg.Language}
	if e.cfg.Slow {
		args = append(args, "--slow")
	}
	args = append(args, "-o", "-")

	cmd := exec.CommandContext(ctx, "gtts-cli", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("timeout after %v: %w", e.cfg.Timeout, ctx.Err())
		}
		return nil, fmt.Errorf("gtts-cli: %w, stderr: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("gtts-cli produced no output, stderr: %s", bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.Bytes(), nil
}
