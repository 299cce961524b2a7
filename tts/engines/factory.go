package engines

import (
	"fmt"

	"github.com/dgnsrekt/vocalize/tts"
)

// New creates the engine selected by the configuration.
func New(cfg tts.Config) (tts.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Engine {
	case "openai":
		return NewOpenAI(cfg.OpenAI)
	case "gtts":
		return NewGTTS(cfg.GTTS)
	case "mock":
		return NewMock(cfg.Mock), nil
	default:
		return nil, fmt.Errorf("%w: %q", tts.ErrUnknownEngine, cfg.Engine)
	}
}
