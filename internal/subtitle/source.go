package subtitle

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxInputSize is the largest media payload accepted for inline encoding.
const MaxInputSize = 100 << 20 // 100 MiB

// SourceKind discriminates the Source union.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceInline
	SourceReference
)

// Source is the media input to a generation request: either an inline
// base64 payload with its media type, or an external reference URL.
// The zero value carries no source; constructors enforce that exactly one
// variant is populated.
type Source struct {
	kind      SourceKind
	payload   string
	mediaType string
	reference string
}

// InlineSource wraps an already-encoded base64 payload. Any data-URI
// prefix is stripped so the payload is pure base64.
func InlineSource(payload, mediaType string) Source {
	return Source{
		kind:      SourceInline,
		payload:   stripDataURI(payload),
		mediaType: mediaType,
	}
}

// ReferenceSource wraps an external media URL. The service resolves the
// reference itself.
func ReferenceSource(url string) Source {
	return Source{kind: SourceReference, reference: url}
}

func (k SourceKind) String() string {
	switch k {
	case SourceInline:
		return "inline"
	case SourceReference:
		return "reference"
	}
	return "none"
}

func (s Source) Kind() SourceKind { return s.kind }

// Inline returns the base64 payload and media type, if populated.
func (s Source) Inline() (payload, mediaType string, ok bool) {
	if s.kind != SourceInline {
		return "", "", false
	}
	return s.payload, s.mediaType, true
}

// Reference returns the external URL, if populated.
func (s Source) Reference() (string, bool) {
	if s.kind != SourceReference {
		return "", false
	}
	return s.reference, true
}

// mediaTypes maps common media extensions to MIME types for inline upload.
var mediaTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
}

// MediaType guesses the MIME type for a media filename.
func MediaType(name string) string {
	if mt, ok := mediaTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mt
	}
	return "application/octet-stream"
}

// EncodeFile reads a media file and returns it as an inline Source.
// The size limit is checked before any content is read, so an oversized
// input never produces a partial encoding.
func EncodeFile(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %v", ErrInputRead, err)
	}
	if info.Size() > MaxInputSize {
		return Source{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrInputTooLarge, info.Size(), MaxInputSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %v", ErrInputRead, err)
	}
	return EncodeBytes(data, MediaType(path))
}

// EncodeBytes base64-encodes raw media content as an inline Source.
func EncodeBytes(data []byte, mediaType string) (Source, error) {
	if len(data) > MaxInputSize {
		return Source{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	return InlineSource(base64.StdEncoding.EncodeToString(data), mediaType), nil
}

// stripDataURI removes a "data:<mime>;base64," prefix so the payload is
// pure base64, which is what the service contract expects.
func stripDataURI(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, "base64,"); i >= 0 {
		return s[i+len("base64,"):]
	}
	return s
}
