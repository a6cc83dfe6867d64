package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/subgen/backend/internal/job"
	"github.com/subgen/backend/internal/storage"
	"github.com/subgen/backend/internal/subtitle"
)

// GenerateHandler enqueues subtitle generation jobs and serves their output.
type GenerateHandler struct {
	mediaPath string
	exporter  *storage.Exporter
	queue     *job.JobQueue
}

func NewGenerateHandler(mediaPath string, exporter *storage.Exporter, queue *job.JobQueue) *GenerateHandler {
	return &GenerateHandler{mediaPath: mediaPath, exporter: exporter, queue: queue}
}

type generateRequest struct {
	TargetLang string `json:"target_lang"`
	Engine     string `json:"engine"`
}

// Generate enqueues a job for an uploaded media file.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	path := extractPath(r)
	if path == "" || strings.Contains(path, "..") {
		jsonError(w, "invalid media path", http.StatusBadRequest)
		return
	}
	fullPath := filepath.Join(h.mediaPath, path)
	info, err := os.Stat(fullPath)
	if err != nil {
		jsonError(w, "media file not found", http.StatusNotFound)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	lang, err := subtitle.ParseLanguage(req.TargetLang)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Reject oversized media before a job is created: an input the
	// encoder will refuse should never reach the queue.
	if info.Size() > subtitle.MaxInputSize {
		jsonError(w, fmt.Sprintf("media exceeds %d MiB limit", subtitle.MaxInputSize>>20), http.StatusRequestEntityTooLarge)
		return
	}

	j, err := h.queue.Enqueue(job.JobGenerate, path, job.GenerateParams{
		Engine:     req.Engine,
		TargetLang: string(lang),
	})
	if err != nil {
		jsonError(w, "failed to enqueue job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(w, j, http.StatusAccepted)
}

type generateURLRequest struct {
	URL        string `json:"url"`
	TargetLang string `json:"target_lang"`
	Engine     string `json:"engine"`
}

// GenerateFromURL enqueues a job for an external media URL. The engine
// resolves the reference itself; nothing is downloaded locally.
func (h *GenerateHandler) GenerateFromURL(w http.ResponseWriter, r *http.Request) {
	var req generateURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		jsonError(w, "a valid http(s) media URL is required", http.StatusBadRequest)
		return
	}

	lang, err := subtitle.ParseLanguage(req.TargetLang)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	j, err := h.queue.Enqueue(job.JobGenerate, "", job.GenerateParams{
		Engine:       req.Engine,
		TargetLang:   string(lang),
		ReferenceURL: req.URL,
	})
	if err != nil {
		jsonError(w, "failed to enqueue job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(w, j, http.StatusAccepted)
}

// List returns the generated subtitle files for a media path or URL.
func (h *GenerateHandler) List(w http.ResponseWriter, r *http.Request) {
	mediaKey := mediaKeyFrom(r)
	if mediaKey == "" {
		jsonError(w, "media path or url required", http.StatusBadRequest)
		return
	}

	names, err := h.exporter.List(mediaKey)
	if err != nil {
		jsonError(w, "failed to list subtitles", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{
		"media": mediaKey,
		"files": names,
	}, http.StatusOK)
}

// Content serves a generated subtitle file inline.
func (h *GenerateHandler) Content(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, false)
}

// Download serves a generated subtitle file as an attachment.
func (h *GenerateHandler) Download(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, true)
}

func (h *GenerateHandler) serve(w http.ResponseWriter, r *http.Request, attachment bool) {
	mediaKey := mediaKeyFrom(r)
	name := r.URL.Query().Get("name")
	if mediaKey == "" || name == "" {
		jsonError(w, "media and name required", http.StatusBadRequest)
		return
	}
	if !storage.IsSubtitleFile(name) {
		jsonError(w, "invalid subtitle name", http.StatusBadRequest)
		return
	}

	data, err := h.exporter.Read(mediaKey, name)
	if err != nil {
		jsonError(w, "subtitle not found", http.StatusNotFound)
		return
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".srt":
		w.Header().Set("Content-Type", "application/x-subrip; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	if attachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	w.Write(data)
}

// Languages returns the closed set of supported target languages.
func (h *GenerateHandler) Languages(w http.ResponseWriter, r *http.Request) {
	type langInfo struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		Tag         string `json:"tag"`
	}
	langs := subtitle.Languages()
	result := make([]langInfo, len(langs))
	for i, l := range langs {
		result[i] = langInfo{ID: string(l), DisplayName: l.DisplayName(), Tag: l.Tag()}
	}
	jsonResponse(w, result, http.StatusOK)
}

// mediaKeyFrom resolves the media identity for output lookup: the
// wildcard library path, or an explicit url query parameter.
func mediaKeyFrom(r *http.Request) string {
	if u := r.URL.Query().Get("url"); u != "" {
		return u
	}
	return extractPath(r)
}
