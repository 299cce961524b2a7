package engines

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/vocalize/segment"
	"github.com/dgnsrekt/vocalize/tts"
)

const (
	openAIDefaultBaseURL = "https://api.openai.com/v1"

	// openAIMaxChars stays under the documented 4096-character input
	// limit for a safety margin.
	openAIMaxChars = 4000
)

// openAIVoices maps voice identifiers to their descriptions.
var openAIVoices = map[string]string{
	"nova":    "Female, warm and natural (default)",
	"alloy":   "Neutral and balanced",
	"echo":    "Male, warm and clear",
	"fable":   "Male, British accent",
	"onyx":    "Male, deep and authoritative",
	"shimmer": "Female, clear and expressive",
}

// OpenAI synthesizes speech through the OpenAI audio API. Texts longer
// than the per-request limit are split at sentence boundaries, each
// chunk synthesized separately, and the MP3 streams concatenated.
type OpenAI struct {
	cfg     tts.OpenAIConfig
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewOpenAI creates the OpenAI engine.
func NewOpenAI(cfg tts.OpenAIConfig) (*OpenAI, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if _, ok := openAIVoices[cfg.Voice]; !ok {
		log.Warn("Unknown OpenAI voice, using nova", "voice", cfg.Voice)
		cfg.Voice = "nova"
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAIDefaultBaseURL
	}

	return &OpenAI{
		cfg:     cfg,
		baseURL: baseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
	}, nil
}

// Name implements tts.Engine.
func (e *OpenAI) Name() string { return "openai" }

// Available reports whether an API key is configured.
func (e *OpenAI) Available() bool { return e.cfg.APIKey != "" }

// Voices returns the known voice identifiers with descriptions.
func Voices() map[string]string {
	voices := make(map[string]string, len(openAIVoices))
	for k, v := range openAIVoices {
		voices[k] = v
	}
	return voices
}

// Synthesize implements tts.Engine.
func (e *OpenAI) Synthesize(ctx context.Context, text string) (*tts.Result, error) {
	if !e.Available() {
		return nil, tts.NewSynthesisError(e.Name(), "configure", tts.ErrMissingAPIKey)
	}

	chunks := requestChunks(text, openAIMaxChars)
	if len(chunks) == 0 {
		return nil, tts.NewSynthesisError(e.Name(), "split", tts.ErrEmptyText)
	}

	var audio bytes.Buffer
	for i, chunk := range chunks {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, tts.NewSynthesisError(e.Name(), "rate limit", err)
		}

		log.Debug("Synthesizing chunk", "engine", e.Name(), "chunk", i+1, "of", len(chunks), "chars", len(chunk))
		data, err := e.request(ctx, chunk)
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

// speechRequest is the JSON body of the speech endpoint.
type speechRequest struct {
	Model string `json:"model"`
	Voice string `json:"voice"`
	Input string `json:"input"`
}

// request performs one synthesis call and returns the MP3 bytes.
func (e *OpenAI) request(ctx context.Context, input string) ([]byte, error) {
	body, err := json.Marshal(speechRequest{
		Model: e.cfg.Model,
		Voice: e.cfg.Voice,
		Input: input,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.baseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, tts.ErrGenerationFailed
	}
	return data, nil
}

// requestChunks splits text into provider-sized requests along
// sentence boundaries. The minimum length sits at 60% of the budget
// so sentences pack into as few requests as possible instead of one
// request per sentence.
func requestChunks(text string, maxChars int) []string {
	segs := segment.Split(text, segment.Options{
		MaxSegmentLength: maxChars,
		MinSegmentLength: maxChars * 3 / 5,
		WordsPerMinute:   150,
	})
	chunks := make([]string, 0, len(segs))
	for _, s := range segs {
		chunks = append(chunks, s.Text)
	}
	return chunks
}
