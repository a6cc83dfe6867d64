package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type FileEntry struct {
	Name     string       `json:"name"`
	Path     string       `json:"path"`
	IsDir    bool         `json:"is_dir"`
	Size     int64        `json:"size,omitempty"`
	Children []*FileEntry `json:"children,omitempty"`
}

var mediaExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	".ts": true, ".mpg": true, ".mpeg": true,
	".mp3": true, ".m4a": true, ".aac": true, ".wav": true,
	".flac": true, ".ogg": true,
}

var subtitleExtensions = map[string]bool{
	".srt": true, ".vtt": true, ".txt": true,
}

func IsMediaFile(name string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(name))]
}

func IsSubtitleFile(name string) bool {
	return subtitleExtensions[strings.ToLower(filepath.Ext(name))]
}

// resolve joins a relative path under base and rejects traversal outside it.
func resolve(basePath, relativePath string) (string, error) {
	fullPath := filepath.Join(basePath, relativePath)
	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return "", err
	}
	absFull, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}
	if absFull != absBase && !strings.HasPrefix(absFull, absBase+string(filepath.Separator)) {
		return "", os.ErrPermission
	}
	return fullPath, nil
}

func ListDirectory(basePath, relativePath string) ([]*FileEntry, error) {
	fullPath, err := resolve(basePath, relativePath)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, err
	}

	var result []*FileEntry
	for _, entry := range entries {
		// Skip hidden files
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !entry.IsDir() && !IsMediaFile(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		fe := &FileEntry{
			Name:  entry.Name(),
			Path:  filepath.Join(relativePath, entry.Name()),
			IsDir: entry.IsDir(),
		}
		if !entry.IsDir() {
			fe.Size = info.Size()
		}
		result = append(result, fe)
	}
	return result, nil
}

func BuildTree(basePath, relativePath string, depth int) (*FileEntry, error) {
	entries, err := ListDirectory(basePath, relativePath)
	if err != nil {
		return nil, err
	}

	if depth > 0 {
		for _, entry := range entries {
			if entry.IsDir {
				subtree, err := BuildTree(basePath, entry.Path, depth-1)
				if err != nil {
					continue
				}
				entry.Children = subtree.Children
			}
		}
	}

	name := filepath.Base(relativePath)
	if relativePath == "" || relativePath == "." {
		name = "root"
	}
	return &FileEntry{
		Name:     name,
		Path:     relativePath,
		IsDir:    true,
		Children: entries,
	}, nil
}

// SaveUpload streams an uploaded media file into the library.
func SaveUpload(basePath, relativePath string, r io.Reader) (int64, error) {
	if !IsMediaFile(relativePath) {
		return 0, fmt.Errorf("not a media file: %s", filepath.Base(relativePath))
	}
	fullPath, err := resolve(basePath, relativePath)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return 0, err
	}
	f, err := os.Create(fullPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(f, r)
}

// Delete removes a media file from the library.
func Delete(basePath, relativePath string) error {
	fullPath, err := resolve(basePath, relativePath)
	if err != nil {
		return err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("refusing to delete directory: %s", relativePath)
	}
	return os.Remove(fullPath)
}
