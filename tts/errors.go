package tts

import (
	"errors"
	"fmt"
)

// Common errors for the synthesis layer.
var (
	ErrEngineNotAvailable = errors.New("TTS engine is not available")
	ErrUnknownEngine      = errors.New("unknown TTS engine")
	ErrEmptyText          = errors.New("no text to synthesize")
	ErrMissingAPIKey      = errors.New("API key not configured")
	ErrInvalidVoice       = errors.New("invalid voice")
	ErrGenerationFailed   = errors.New("audio generation failed")
)

// SynthesisError wraps a provider failure with the engine name and the
// action that failed. A synthesis failure is fatal for the conversion
// request: no artifacts are produced from partial audio.
type SynthesisError struct {
	Engine string
	Action string
	Err    error
}

// Error implements the error interface.
func (e *SynthesisError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Engine, e.Action, e.Err)
}

// Unwrap returns the underlying error.
func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// NewSynthesisError wraps err with engine and action context.
func NewSynthesisError(engine, action string, err error) *SynthesisError {
	return &SynthesisError{Engine: engine, Action: action, Err: err}
}
