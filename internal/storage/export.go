package storage

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/subgen/backend/internal/subtitle"
)

// Exporter persists serialized subtitle output. Each media input gets its
// own directory keyed by a hash of its path or URL.
type Exporter struct {
	subtitlePath string
}

func NewExporter(subtitlePath string) *Exporter {
	return &Exporter{subtitlePath: subtitlePath}
}

// MediaHash derives the per-media output directory name.
func MediaHash(mediaKey string) string {
	h := sha256.Sum256([]byte(mediaKey))
	return fmt.Sprintf("%x", h[:8])
}

// OutputName derives the delivered filename: media base name (or a
// default), the target-language tag, and the format extension.
// "episode1.mp4" in Indonesian becomes "episode1.id.srt".
func OutputName(mediaName string, lang subtitle.Language, ext string) string {
	base := strings.TrimSuffix(filepath.Base(mediaName), filepath.Ext(mediaName))
	if base == "" || base == "." || base == "/" {
		base = "subtitles"
	}
	return fmt.Sprintf("%s.%s.%s", base, lang.Tag(), ext)
}

// Save writes serialized content for a media input and returns the path
// relative to the subtitle root.
func (e *Exporter) Save(mediaKey, filename, content string) (string, error) {
	dir := filepath.Join(e.subtitlePath, MediaHash(mediaKey))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	outFile := filepath.Join(dir, filename)
	if err := os.WriteFile(outFile, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("save output: %w", err)
	}
	return filepath.Join(MediaHash(mediaKey), filename), nil
}

// Read returns previously exported content. The filename must not escape
// the media's output directory.
func (e *Exporter) Read(mediaKey, filename string) ([]byte, error) {
	dir := filepath.Join(e.subtitlePath, MediaHash(mediaKey))
	path := filepath.Join(dir, filename)

	absDir, _ := filepath.Abs(dir)
	absPath, _ := filepath.Abs(path)
	if !strings.HasPrefix(absPath, absDir+string(filepath.Separator)) {
		return nil, os.ErrPermission
	}
	return os.ReadFile(path)
}

// List returns the exported filenames for a media input, if any.
func (e *Exporter) List(mediaKey string) ([]string, error) {
	dir := filepath.Join(e.subtitlePath, MediaHash(mediaKey))
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
