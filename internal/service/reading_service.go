package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"palm-reader-api/internal/config"
	"palm-reader-api/internal/observer"
	"palm-reader-api/internal/reading"
	"palm-reader-api/internal/vision"
	"palm-reader-api/pkg/models"
	"palm-reader-api/pkg/validation"
)

// ReadingService defines the palm-reading analysis flow
type ReadingService interface {
	Analyze(ctx context.Context, req models.AnalyzeRequest) (json.RawMessage, error)
}

// fallbackRunner is the slice of the fallback selector the service needs
type fallbackRunner interface {
	Run(ctx context.Context, candidates []string, req vision.GenerateRequest) (string, error)
}

type readingService struct {
	cfg       *config.Config
	validator *validation.ImageValidator
	selector  fallbackRunner
	events    observer.Subject
}

// NewReadingService creates a new reading service
func NewReadingService(
	cfg *config.Config,
	validator *validation.ImageValidator,
	selector fallbackRunner,
	events observer.Subject,
) ReadingService {
	return &readingService{
		cfg:       cfg,
		validator: validator,
		selector:  selector,
		events:    events,
	}
}

// Analyze validates the image payload, drives the fallback selector over
// the tier's candidate list, and normalizes the model output.
func (s *readingService) Analyze(ctx context.Context, req models.AnalyzeRequest) (json.RawMessage, error) {
	startTime := time.Now()

	payload, err := s.validator.Parse(req.Image)
	if err != nil {
		return nil, err
	}

	tier := reading.ParseTier(req.Mode)

	// Fail closed before any outbound call when the credential is absent
	if _, err := s.cfg.VisionAPIKey(); err != nil {
		return nil, err
	}

	prompt := reading.ForTier(tier)
	candidates := s.cfg.FreeModels
	if tier.IsPremium() {
		candidates = s.cfg.PremiumModels
	}

	s.publish(ctx, observer.ReadingEvent{
		EventType: observer.ReadingStarted,
		Timestamp: startTime,
		Tier:      string(tier),
	})

	text, err := s.selector.Run(ctx, candidates, vision.GenerateRequest{
		System:   prompt.System,
		Prompt:   prompt.User,
		Image:    payload,
		JSONMode: prompt.JSONMode,
	})
	if err != nil {
		s.publish(ctx, observer.ReadingEvent{
			EventType:      observer.ReadingFailed,
			Timestamp:      time.Now(),
			Tier:           string(tier),
			ProcessingTime: time.Since(startTime),
			ErrorMessage:   err.Error(),
		})
		return nil, err
	}

	s.publish(ctx, observer.ReadingEvent{
		EventType:      observer.ReadingCompleted,
		Timestamp:      time.Now(),
		Tier:           string(tier),
		ProcessingTime: time.Since(startTime),
		Success:        true,
	})

	return normalizeResult(text), nil
}

// publish fans the event out detached from the request lifetime so the
// admin notification survives the response being written.
func (s *readingService) publish(ctx context.Context, event observer.ReadingEvent) {
	if s.events == nil {
		return
	}
	s.events.NotifyObservers(context.WithoutCancel(ctx), event)
}

// normalizeResult returns the model text verbatim when it already is JSON,
// and wraps legacy free-text output as {"result": text} otherwise.
func normalizeResult(text string) json.RawMessage {
	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	wrapped, _ := json.Marshal(map[string]string{"result": trimmed})
	return json.RawMessage(wrapped)
}
