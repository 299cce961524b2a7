// Package input resolves the text to convert from its possible sources
// and normalizes it for synthesis.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
)

// ErrNoText reports that a source was resolved but held nothing to
// convert.
var ErrNoText = errors.New("no text to convert")

// Error wraps a failure to resolve an input source. Input failures
// abort the request before any synthesis cost is incurred.
type Error struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("input %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Text is a resolved input with its provenance for artifact metadata.
type Text struct {
	// Content is the cleaned, speakable text.
	Content string

	// Source names where the text came from: "argument", "stdin",
	// "clipboard", or an absolute file path.
	Source string
}

// FromString treats s as the literal text to convert.
func FromString(s string) (Text, error) {
	return finish("argument", s, false)
}

// FromArg resolves a command-line source argument: "-" reads stdin,
// anything else is treated as a file path. Markdown files are
// flattened to plain prose before cleaning.
func FromArg(arg string) (Text, error) {
	if arg == "-" {
		return FromStdin()
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return Text{}, &Error{Source: arg, Err: err}
	}

	abs, err := filepath.Abs(arg)
	if err != nil {
		return Text{}, &Error{Source: arg, Err: err}
	}

	return finish(abs, string(data), isMarkdownPath(arg))
}

// FromStdin reads the piped input.
func FromStdin() (Text, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return Text{}, &Error{Source: "stdin", Err: err}
	}
	return finish("stdin", string(data), false)
}

// FromClipboard reads the system clipboard.
func FromClipboard() (Text, error) {
	s, err := clipboard.ReadAll()
	if err != nil {
		return Text{}, &Error{Source: "clipboard", Err: err}
	}
	return finish("clipboard", s, false)
}

// StdinIsPipe reports whether stdin has piped data waiting.
func StdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// isMarkdownPath reports whether the file should be parsed as markdown.
func isMarkdownPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".mdown", ".mkdn", ".mkd", ".markdown":
		return true
	}
	return false
}

// finish flattens markdown if needed, cleans the text, and rejects
// empty results.
func finish(source, raw string, markdown bool) (Text, error) {
	if markdown {
		raw = Flatten([]byte(raw))
	}

	cleaned := Clean(raw)
	if cleaned == "" {
		return Text{}, &Error{Source: source, Err: ErrNoText}
	}

	log.Debug("Resolved input", "source", source, "chars", len(cleaned))
	return Text{Content: cleaned, Source: source}, nil
}
