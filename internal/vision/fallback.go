package vision

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	apperrors "palm-reader-api/internal/errors"
	"palm-reader-api/internal/logger"
)

// Selector drives the Generator across an ordered candidate list.
// First success wins; candidates are tried strictly one at a time so a
// cheap model that works never costs quota on the expensive ones.
type Selector struct {
	generator   Generator
	lister      ModelLister
	diagnostics bool
}

// NewSelector creates a fallback selector. The lister is only consulted
// when diagnostics are enabled and every candidate has failed.
func NewSelector(generator Generator, lister ModelLister, diagnostics bool) *Selector {
	return &Selector{
		generator:   generator,
		lister:      lister,
		diagnostics: diagnostics,
	}
}

// Run tries each candidate in list order and returns the first success.
// On exhaustion it returns an aggregate error carrying one entry per
// candidate, in order, optionally enriched with the vendor's model list.
func (s *Selector) Run(ctx context.Context, candidates []string, req GenerateRequest) (string, error) {
	if len(candidates) == 0 {
		return "", apperrors.NewAggregateError("no candidate models configured")
	}

	reports := make([]string, 0, len(candidates))
	for _, model := range candidates {
		req.Model = model
		text, err := s.generator.Generate(ctx, req)
		if err == nil {
			return text, nil
		}

		logger.WithError(err).WithFields(logrus.Fields{
			"model": model,
		}).Warn("Candidate model failed, trying next")
		reports = append(reports, fmt.Sprintf("model %s: %v", model, err))
	}

	message := "all candidate models failed: " + strings.Join(reports, "; ")
	if s.diagnostics && s.lister != nil {
		message += s.listModelsNote(ctx)
	}
	return "", apperrors.NewAggregateError(message)
}

// listModelsNote is best-effort: its own failure is swallowed into an
// inline note rather than propagated.
func (s *Selector) listModelsNote(ctx context.Context) string {
	available, err := s.lister.ListModels(ctx)
	if err != nil {
		logger.WithError(err).Warn("Model-listing diagnostic failed")
		return " (could not list models)"
	}
	return "; available models: " + strings.Join(available, ", ")
}
