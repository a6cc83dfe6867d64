package generate

import (
	"context"

	"github.com/subgen/backend/internal/subtitle"
)

// Request is one generation: a media source plus the target language.
type Request struct {
	Source   subtitle.Source
	Language subtitle.Language
}

// Generator is the common interface for subtitle generation engines.
type Generator interface {
	// Generate produces a validated subtitle sequence for the request.
	Generate(ctx context.Context, req Request) (subtitle.Sequence, error)
	// Name returns the engine name.
	Name() string
}
