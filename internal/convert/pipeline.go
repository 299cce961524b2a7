// Package convert runs the full conversion pipeline: resolved text is
// segmented, synthesized (or timing-estimated), and rendered into the
// output artifacts.
package convert

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/dgnsrekt/vocalize/emit"
	"github.com/dgnsrekt/vocalize/internal/input"
	"github.com/dgnsrekt/vocalize/segment"
	"github.com/dgnsrekt/vocalize/tts"
)

// Request describes one conversion.
type Request struct {
	// Text is the resolved input.
	Text input.Text

	// Title names the document in the transcript and viewer. Empty
	// falls back to the emitters' defaults.
	Title string

	// Voice is recorded in artifact metadata.
	Voice string

	// BaseName overrides the generated artifact basename.
	BaseName string

	// NoAudio skips synthesis and estimates timings from the
	// words-per-minute rate instead.
	NoAudio bool

	// Compress additionally writes the viewer payload gzipped.
	Compress bool

	// Options tune segmentation and the estimation rate.
	Options segment.Options
}

// Outcome reports what a conversion produced.
type Outcome struct {
	Segments  []segment.Segment
	Metadata  segment.Metadata
	AudioPath string

	// Artifacts lists every file written, audio included.
	Artifacts []string

	// Transcript holds the rendered markdown for terminal preview.
	Transcript []byte
}

// Pipeline runs conversions against a fixed engine and output
// directory.
type Pipeline struct {
	engine tts.Engine
	writer *Writer

	// now is swappable for tests.
	now func() time.Time
}

// New creates a pipeline. The engine may be nil when every request
// sets NoAudio.
func New(engine tts.Engine, writer *Writer) *Pipeline {
	return &Pipeline{engine: engine, writer: writer, now: time.Now}
}

// Convert runs the pipeline for one request. Input and synthesis
// failures abort before anything is written; degenerate timing
// proceeds and is flagged in the metadata instead.
func (p *Pipeline) Convert(ctx context.Context, req Request) (*Outcome, error) {
	if err := req.Options.Validate(); err != nil {
		return nil, stageError(StageInput, err)
	}

	segments := segment.Split(req.Text.Content, req.Options)
	if len(segments) == 0 {
		return nil, stageError(StageInput, input.ErrNoText)
	}
	log.Debug("Segmented input", "segments", len(segments), "chars", len(req.Text.Content))

	var (
		total  float64
		audio  []byte
		format string
	)
	if req.NoAudio {
		segments, total = segment.EstimateTimings(segments, req.Options.WordsPerMinute)
		log.Debug("Estimated timings", "duration", total)
	} else {
		if p.engine == nil {
			return nil, stageError(StageSynthesis, tts.ErrEngineNotAvailable)
		}
		result, err := p.engine.Synthesize(ctx, req.Text.Content)
		if err != nil {
			return nil, stageError(StageSynthesis, err)
		}
		audio = result.Audio
		format = result.Format
		total = result.Duration
		segments = segment.AssignTimings(segments, total)
		log.Debug("Synthesized audio", "engine", p.engine.Name(), "bytes", len(audio), "duration", total)
	}

	meta := segment.BuildMetadata(segments, total, req.Options)
	meta.Title = req.Title
	meta.Voice = req.Voice
	meta.Source = req.Text.Source
	meta.TimingEstimated = req.NoAudio
	if !req.NoAudio {
		meta.Engine = p.engine.Name()
	}

	base := req.BaseName
	if base == "" {
		base = BaseName(req.Text.Content, p.now())
	}

	outcome := &Outcome{Segments: segments, Metadata: meta}

	var mu sync.Mutex
	record := func(path string) {
		mu.Lock()
		outcome.Artifacts = append(outcome.Artifacts, path)
		mu.Unlock()
	}

	// Audio is written first so the other artifacts can reference its
	// filename in their metadata.
	if audio != nil {
		name := base + "." + format
		path, err := p.writer.Write(name, audio)
		if err != nil {
			return nil, stageError(StageWrite, err)
		}
		meta.AudioFile = name
		outcome.AudioPath = path
		outcome.Metadata = meta
		record(path)
	}

	// The emitters are pure functions of the same segments and
	// metadata, so they run concurrently.
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		path, err := p.writer.Write(base+".srt", emit.SRT(segments, meta))
		if err != nil {
			return stageError(StageWrite, err)
		}
		record(path)
		return nil
	})

	g.Go(func() error {
		doc := emit.Transcript(segments, meta)
		mu.Lock()
		outcome.Transcript = doc
		mu.Unlock()

		path, err := p.writer.Write(base+".md", doc)
		if err != nil {
			return stageError(StageWrite, err)
		}
		record(path)
		return nil
	})

	g.Go(func() error {
		payload, err := emit.Viewer(segments, meta)
		if err != nil {
			return stageError(StageEmit, err)
		}

		path, err := p.writer.Write(base+".json", payload)
		if err != nil {
			return stageError(StageWrite, err)
		}
		record(path)

		if req.Compress {
			path, err := p.writer.WriteGzip(base+".json", payload)
			if err != nil {
				return stageError(StageWrite, err)
			}
			record(path)
		}

		page, err := viewerHTML(meta.Title, meta.AudioFile, payload)
		if err != nil {
			return stageError(StageEmit, err)
		}
		path, err = p.writer.Write(base+".html", page)
		if err != nil {
			return stageError(StageWrite, err)
		}
		record(path)
		return nil
	})

	if err := g.Wait(); err != nil {
		// A partial artifact set would be misleading; drop whatever
		// was already written, the audio file included.
		for _, path := range outcome.Artifacts {
			if rmErr := os.Remove(path); rmErr != nil {
				log.Warn("Failed to remove partial artifact", "path", path, "err", rmErr)
			}
		}
		return nil, err
	}

	log.Info("Conversion complete", "artifacts", len(outcome.Artifacts), "dir", p.writer.Dir())
	return outcome, nil
}
