package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/mitchellh/go-homedir"
)

// nameNoise matches everything that cannot appear in a generated
// artifact basename.
var nameNoise = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// maxNameWords caps how many leading words of the text contribute to
// the generated basename.
const maxNameWords = 3

// BaseName derives an artifact basename from the first words of the
// text plus a timestamp, falling back to a bare timestamped name when
// the text yields no usable words.
func BaseName(text string, now time.Time) string {
	stamp := now.Format("20060102_150405")

	clean := strings.ToLower(nameNoise.ReplaceAllString(text, " "))
	words := strings.Fields(clean)
	if len(words) == 0 {
		return "tts_" + stamp
	}
	if len(words) > maxNameWords {
		words = words[:maxNameWords]
	}
	return strings.Join(words, "_") + "_" + stamp
}

// Writer persists conversion artifacts under a single directory.
type Writer struct {
	dir string
}

// NewWriter expands the directory path and ensures it exists.
func NewWriter(dir string) (*Writer, error) {
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to expand output dir: %w", err)
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create output dir: %w", err)
	}
	return &Writer{dir: expanded}, nil
}

// Dir returns the resolved output directory.
func (w *Writer) Dir() string { return w.dir }

// Write stores one artifact and returns its path.
func (w *Writer) Write(name string, data []byte) (string, error) {
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("unable to write %s: %w", name, err)
	}
	return path, nil
}

// WriteGzip stores one artifact gzip-compressed, appending the .gz
// suffix, and returns its path.
func (w *Writer) WriteGzip(name string, data []byte) (string, error) {
	path := filepath.Join(w.dir, name+".gz")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("unable to create %s: %w", name, err)
	}

	zw := gzip.NewWriter(f)
	if _, err := zw.Write(data); err != nil {
		f.Close() //nolint:errcheck,gosec
		return "", fmt.Errorf("unable to compress %s: %w", name, err)
	}
	if err := zw.Close(); err != nil {
		f.Close() //nolint:errcheck,gosec
		return "", fmt.Errorf("unable to flush %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("unable to close %s: %w", name, err)
	}
	return path, nil
}
