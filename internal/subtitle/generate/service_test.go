package generate

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/subgen/backend/internal/job"
	"github.com/subgen/backend/internal/storage"
	"github.com/subgen/backend/internal/subtitle"
)

type fakeEngine struct {
	name    string
	lastReq Request
	seq     subtitle.Sequence
	err     error
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Generate(ctx context.Context, req Request) (subtitle.Sequence, error) {
	f.lastReq = req
	return f.seq, f.err
}

func newTestService(t *testing.T, engine *fakeEngine) (*Service, string, string) {
	t.Helper()
	mediaDir := t.TempDir()
	subDir := t.TempDir()
	s := NewService(mediaDir, storage.NewExporter(subDir))
	s.Register(engine)
	return s, mediaDir, subDir
}

func makeJob(t *testing.T, filePath string, params job.GenerateParams) *job.Job {
	t.Helper()
	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatal(err)
	}
	return &job.Job{
		ID:        "test-job",
		Type:      job.JobGenerate,
		Status:    job.StatusRunning,
		FilePath:  filePath,
		Params:    raw,
		CreatedAt: time.Now(),
	}
}

func TestHandleJobFromFile(t *testing.T) {
	engine := &fakeEngine{
		name: "gemini",
		seq: subtitle.Sequence{
			{Start: 0, End: 2.5, Text: "Hello"},
			{Start: 2.5, End: 5, Text: "World"},
		},
	}
	s, mediaDir, subDir := newTestService(t, engine)

	if err := os.WriteFile(filepath.Join(mediaDir, "episode1.mp4"), []byte("media"), 0644); err != nil {
		t.Fatal(err)
	}

	j := makeJob(t, "episode1.mp4", job.GenerateParams{TargetLang: "indonesian"})
	if err := s.HandleJob(context.Background(), j, func(float64) {}); err != nil {
		t.Fatalf("HandleJob returned error: %v", err)
	}

	// Engine saw an inline source with the encoded payload
	if engine.lastReq.Source.Kind() != subtitle.SourceInline {
		t.Errorf("engine got %s source, want inline", engine.lastReq.Source.Kind())
	}
	if engine.lastReq.Language != subtitle.LangIndonesian {
		t.Errorf("engine got language %s", engine.lastReq.Language)
	}

	var result job.GenerateResult
	if err := json.Unmarshal(j.Result, &result); err != nil {
		t.Fatalf("invalid result JSON: %v", err)
	}
	if result.Items != 2 || result.Language != "indonesian" {
		t.Errorf("unexpected result: %+v", result)
	}
	if filepath.Base(result.SRTPath) != "episode1.id.srt" {
		t.Errorf("SRT filename = %s", filepath.Base(result.SRTPath))
	}
	if filepath.Base(result.TranscriptPath) != "episode1.id.txt" {
		t.Errorf("transcript filename = %s", filepath.Base(result.TranscriptPath))
	}

	srt, err := os.ReadFile(filepath.Join(subDir, result.SRTPath))
	if err != nil {
		t.Fatalf("SRT not exported: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:02,500\nHello\n\n2\n00:00:02,500 --> 00:00:05,000\nWorld\n"
	if string(srt) != want {
		t.Errorf("SRT content = %q, want %q", srt, want)
	}

	txt, err := os.ReadFile(filepath.Join(subDir, result.TranscriptPath))
	if err != nil {
		t.Fatalf("transcript not exported: %v", err)
	}
	if string(txt) != "Hello\nWorld\n" {
		t.Errorf("transcript content = %q", txt)
	}
}

func TestHandleJobFromURL(t *testing.T) {
	engine := &fakeEngine{
		name: "gemini",
		seq:  subtitle.Sequence{{Start: 0, End: 1, Text: "hi"}},
	}
	s, _, _ := newTestService(t, engine)

	j := makeJob(t, "", job.GenerateParams{
		TargetLang:   "english",
		ReferenceURL: "https://example.com/videos/talk.mp4",
	})
	if err := s.HandleJob(context.Background(), j, func(float64) {}); err != nil {
		t.Fatalf("HandleJob returned error: %v", err)
	}

	if engine.lastReq.Source.Kind() != subtitle.SourceReference {
		t.Fatalf("engine got %s source, want reference", engine.lastReq.Source.Kind())
	}
	url, _ := engine.lastReq.Source.Reference()
	if url != "https://example.com/videos/talk.mp4" {
		t.Errorf("reference URL = %q", url)
	}

	var result job.GenerateResult
	json.Unmarshal(j.Result, &result)
	if filepath.Base(result.SRTPath) != "talk.en.srt" {
		t.Errorf("SRT filename = %s", filepath.Base(result.SRTPath))
	}
}

func TestHandleJobNoSource(t *testing.T) {
	s, _, _ := newTestService(t, &fakeEngine{name: "gemini"})

	j := makeJob(t, "", job.GenerateParams{TargetLang: "english"})
	err := s.HandleJob(context.Background(), j, func(float64) {})
	if !errors.Is(err, subtitle.ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
}

func TestHandleJobOversizedInput(t *testing.T) {
	engine := &fakeEngine{name: "gemini"}
	s, mediaDir, _ := newTestService(t, engine)

	path := filepath.Join(mediaDir, "big.mkv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(subtitle.MaxInputSize + 1); err != nil {
		f.Close()
		t.Skipf("cannot create sparse file: %v", err)
	}
	f.Close()

	j := makeJob(t, "big.mkv", job.GenerateParams{TargetLang: "english"})
	err = s.HandleJob(context.Background(), j, func(float64) {})
	if !errors.Is(err, subtitle.ErrInputTooLarge) {
		t.Fatalf("expected ErrInputTooLarge, got %v", err)
	}
	// The engine must never be invoked for an oversized input
	if engine.lastReq.Source.Kind() != subtitle.SourceNone {
		t.Error("engine was invoked despite oversized input")
	}
}

func TestHandleJobUnknownLanguage(t *testing.T) {
	s, _, _ := newTestService(t, &fakeEngine{name: "gemini"})
	j := makeJob(t, "", job.GenerateParams{TargetLang: "latin", ReferenceURL: "https://example.com/a.mp4"})
	if err := s.HandleJob(context.Background(), j, func(float64) {}); err == nil {
		t.Fatal("expected error for unsupported language")
	}
}

func TestHandleJobUnknownEngine(t *testing.T) {
	s, _, _ := newTestService(t, &fakeEngine{name: "gemini"})
	j := makeJob(t, "", job.GenerateParams{Engine: "whisper", TargetLang: "english", ReferenceURL: "https://example.com/a.mp4"})
	err := s.HandleJob(context.Background(), j, func(float64) {})
	if err == nil || !strings.Contains(err.Error(), "unknown generation engine") {
		t.Fatalf("expected unknown engine error, got %v", err)
	}
}

func TestHandleJobEngineFailure(t *testing.T) {
	s, _, subDir := newTestService(t, &fakeEngine{name: "gemini", err: subtitle.ErrEmptyResponse})

	j := makeJob(t, "", job.GenerateParams{TargetLang: "english", ReferenceURL: "https://example.com/a.mp4"})
	err := s.HandleJob(context.Background(), j, func(float64) {})
	if !errors.Is(err, subtitle.ErrEmptyResponse) {
		t.Fatalf("expected wrapped engine error, got %v", err)
	}

	// No partial output on failure
	entries, _ := os.ReadDir(subDir)
	if len(entries) != 0 {
		t.Errorf("expected no exported files, found %d", len(entries))
	}
}
