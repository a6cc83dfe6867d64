package job

import (
	"context"
	"encoding/json"
	"time"
)

// JobType represents the kind of job
type JobType string

const (
	JobGenerate JobType = "generate"
)

// JobStatus represents the current state of a job
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// Job represents a queued subtitle generation task
type Job struct {
	ID          string          `json:"id"`
	Type        JobType         `json:"type"`
	Status      JobStatus       `json:"status"`
	FilePath    string          `json:"file_path"`
	Params      json.RawMessage `json:"params"`
	Progress    float64         `json:"progress"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// GenerateParams are parameters for a subtitle generation job.
// FilePath on the job names an uploaded media file; when ReferenceURL is
// set instead, the engine resolves the URL itself and FilePath is empty.
type GenerateParams struct {
	Engine       string `json:"engine"`                  // "gemini"
	TargetLang   string `json:"target_lang"`             // "english", "indonesian", ...
	ReferenceURL string `json:"reference_url,omitempty"` // external media URL
}

// GenerateResult is the output of a successful generation
type GenerateResult struct {
	SRTPath        string  `json:"srt_path"`        // relative path to the SRT file
	TranscriptPath string  `json:"transcript_path"` // relative path to the plain transcript
	Language       string  `json:"language"`        // target language
	Items          int     `json:"items"`           // number of subtitle lines
	Duration       float64 `json:"duration"`        // processing time in seconds
}

// JobHandler processes a job. Implementations are provided by the generate package.
type JobHandler func(ctx context.Context, job *Job, updateProgress func(float64)) error
