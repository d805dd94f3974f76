package container

import (
	"net/http"

	"palm-reader-api/internal/config"
	"palm-reader-api/internal/logger"
	"palm-reader-api/internal/mailer"
	"palm-reader-api/internal/observer"
	"palm-reader-api/internal/payment"
	"palm-reader-api/internal/service"
	"palm-reader-api/internal/transport"
	"palm-reader-api/internal/vision"
	"palm-reader-api/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config         *config.Config
	readingService service.ReadingService
	checkout       *payment.CheckoutInitiator
	dispatcher     *mailer.Dispatcher
	handler        http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	// Build dependency graph
	validator := validation.NewImageValidator()
	adapter := vision.NewOpenAIAdapter(cfg.VisionBaseURL, cfg.VisionAPIKey)
	selector := vision.NewSelector(adapter, adapter, cfg.DiagnosticsEnabled)

	dispatcher := mailer.NewDispatcher(mailer.Options{
		ResolveKey:  cfg.BrevoAPIKey,
		SenderName:  cfg.SenderName,
		SenderEmail: cfg.SenderEmail,
		AdminEmail:  cfg.AdminEmail,
	})
	checkout := payment.NewCheckoutInitiator(cfg.StripeSecretKey, cfg.AppBaseURL)

	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(observer.NewAdminNotifyObserver(dispatcher, logger.Logger))

	readingService := service.NewReadingService(cfg, validator, selector, publisher)
	handler := transport.NewHandler(readingService, checkout, dispatcher, cfg)

	return &Container{
		config:         cfg,
		readingService: readingService,
		checkout:       checkout,
		dispatcher:     dispatcher,
		handler:        handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}
