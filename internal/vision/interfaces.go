package vision

import (
	"context"

	"palm-reader-api/pkg/models"
)

// GenerateRequest carries one vision-model invocation: an instruction pair,
// the palm image, and the candidate model to try.
type GenerateRequest struct {
	System   string
	Prompt   string
	Image    models.ImagePayload
	Model    string
	JSONMode bool
}

// Generator performs a single vendor call for one model candidate
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// ModelLister exposes the vendor's model-listing endpoint for diagnostics
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}
