package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/subgen/backend/internal/storage"
	"github.com/subgen/backend/internal/subtitle"
)

// extractPath extracts and URL-decodes the wildcard path from chi router
func extractPath(r *http.Request) string {
	path := chi.URLParam(r, "*")
	decoded, err := url.PathUnescape(path)
	if err != nil {
		return path
	}
	// Clean any double slashes or trailing slashes
	decoded = strings.TrimPrefix(decoded, "/")
	decoded = strings.TrimSuffix(decoded, "/")
	return decoded
}

type FilesHandler struct {
	mediaPath string
}

func NewFilesHandler(mediaPath string) *FilesHandler {
	return &FilesHandler{mediaPath: mediaPath}
}

func (h *FilesHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	path := extractPath(r)
	if path == "" {
		path = "."
	}

	entries, err := storage.ListDirectory(h.mediaPath, path)
	if err != nil {
		jsonError(w, "failed to list directory", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"path":    path,
		"entries": entries,
	}, http.StatusOK)
}

func (h *FilesHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		jsonError(w, "query required", http.StatusBadRequest)
		return
	}
	limit := 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}

	results, err := storage.Search(h.mediaPath, query, limit)
	if err != nil {
		jsonError(w, "search failed", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []*storage.FileEntry{}
	}
	jsonResponse(w, results, http.StatusOK)
}

// Upload streams a media file into the library. Uploads are capped at the
// same limit the inline encoder enforces, so an accepted upload can
// always be dispatched.
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	path := extractPath(r)
	if path == "" {
		jsonError(w, "destination path required", http.StatusBadRequest)
		return
	}
	if !storage.IsMediaFile(path) {
		jsonError(w, "unsupported media type: "+filepath.Ext(path), http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, subtitle.MaxInputSize)
	size, err := storage.SaveUpload(h.mediaPath, path, r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			storage.Delete(h.mediaPath, path)
			jsonError(w, "file exceeds 100 MiB upload limit", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "upload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"path": path,
		"size": size,
	}, http.StatusCreated)
}

func (h *FilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	path := extractPath(r)
	if path == "" {
		jsonError(w, "path required", http.StatusBadRequest)
		return
	}
	if err := storage.Delete(h.mediaPath, path); err != nil {
		jsonError(w, "delete failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
