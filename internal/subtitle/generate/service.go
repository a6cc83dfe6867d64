package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"path"
	"path/filepath"
	"time"

	"github.com/subgen/backend/internal/job"
	"github.com/subgen/backend/internal/storage"
	"github.com/subgen/backend/internal/subtitle"
)

// Service manages generation engines and processes generation jobs
type Service struct {
	engines   map[string]Generator
	mediaPath string
	exporter  *storage.Exporter
}

// NewService creates a generation service. Engines are registered
// separately so key resolution can come from settings.
func NewService(mediaPath string, exporter *storage.Exporter) *Service {
	return &Service{
		engines:   make(map[string]Generator),
		mediaPath: mediaPath,
		exporter:  exporter,
	}
}

// Register adds a generation engine
func (s *Service) Register(g Generator) {
	s.engines[g.Name()] = g
	log.Printf("[generate] registered %s engine", g.Name())
}

// Engines returns the registered engine names
func (s *Service) Engines() []string {
	names := make([]string, 0, len(s.engines))
	for name := range s.engines {
		names = append(names, name)
	}
	return names
}

// HandleJob processes a subtitle generation job: resolve the media
// source, call the engine, serialize, export. Each step fails fast with
// no partial output.
func (s *Service) HandleJob(ctx context.Context, j *job.Job, updateProgress func(float64)) error {
	started := time.Now()

	var params job.GenerateParams
	if err := json.Unmarshal(j.Params, &params); err != nil {
		return fmt.Errorf("unmarshal params: %w", err)
	}

	engineName := params.Engine
	if engineName == "" {
		engineName = "gemini"
	}
	engine, ok := s.engines[engineName]
	if !ok {
		return fmt.Errorf("unknown generation engine: %s (available: %v)", engineName, s.Engines())
	}

	lang, err := subtitle.ParseLanguage(params.TargetLang)
	if err != nil {
		return err
	}

	// Resolve the media source. The payload must be fully encoded before
	// the request is dispatched.
	src, mediaKey, mediaName, err := s.resolveSource(j, params)
	if err != nil {
		return err
	}
	updateProgress(0.2)

	log.Printf("[generate] starting: engine=%s lang=%s source=%s media=%s",
		engineName, lang, src.Kind(), mediaName)

	seq, err := engine.Generate(ctx, Request{Source: src, Language: lang})
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	updateProgress(0.8)

	srtPath, err := s.exporter.Save(mediaKey, storage.OutputName(mediaName, lang, "srt"), subtitle.ToSRT(seq))
	if err != nil {
		return err
	}
	txtPath, err := s.exporter.Save(mediaKey, storage.OutputName(mediaName, lang, "txt"), subtitle.ToTranscript(seq))
	if err != nil {
		return err
	}

	log.Printf("[generate] complete: %d lines -> %s", len(seq), srtPath)

	resultJSON, _ := json.Marshal(job.GenerateResult{
		SRTPath:        srtPath,
		TranscriptPath: txtPath,
		Language:       string(lang),
		Items:          len(seq),
		Duration:       time.Since(started).Seconds(),
	})
	j.Result = resultJSON

	updateProgress(1.0)
	return nil
}

// resolveSource builds the media source for a job: an encoded upload from
// the library, or an external reference URL.
func (s *Service) resolveSource(j *job.Job, params job.GenerateParams) (subtitle.Source, string, string, error) {
	if params.ReferenceURL != "" {
		return subtitle.ReferenceSource(params.ReferenceURL),
			params.ReferenceURL, referenceName(params.ReferenceURL), nil
	}
	if j.FilePath == "" {
		return subtitle.Source{}, "", "", subtitle.ErrNoSource
	}
	src, err := subtitle.EncodeFile(filepath.Join(s.mediaPath, j.FilePath))
	if err != nil {
		return subtitle.Source{}, "", "", err
	}
	return src, j.FilePath, filepath.Base(j.FilePath), nil
}

// referenceName derives a display name from a media URL for output naming.
func referenceName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || path.Base(u.Path) == "/" || path.Base(u.Path) == "." {
		return "subtitles"
	}
	return path.Base(u.Path)
}
