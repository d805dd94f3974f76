package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ReadingEvent represents one palm-reading lifecycle event
type ReadingEvent struct {
	EventType      EventType     `json:"event_type"`
	Timestamp      time.Time     `json:"timestamp"`
	Tier           string        `json:"tier"`
	ProcessingTime time.Duration `json:"processing_time"`
	Success        bool          `json:"success"`
	ErrorMessage   string        `json:"error_message,omitempty"`
}

// EventType represents the type of reading event
type EventType string

const (
	// ReadingStarted when a reading begins
	ReadingStarted EventType = "reading_started"
	// ReadingCompleted when a reading finishes successfully
	ReadingCompleted EventType = "reading_completed"
	// ReadingFailed when every candidate model failed
	ReadingFailed EventType = "reading_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event ReadingEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	NotifyObservers(ctx context.Context, event ReadingEvent)
}

// LoggingObserver logs reading events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles reading events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event ReadingEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"tier":            event.Tier,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	switch event.EventType {
	case ReadingStarted:
		o.logger.WithFields(fields).Info("Palm reading started")
	case ReadingCompleted:
		o.logger.WithFields(fields).Info("Palm reading completed")
	case ReadingFailed:
		o.logger.WithFields(fields).Error("Palm reading failed")
	default:
		o.logger.WithFields(fields).Info("Reading event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// AdminNotifier sends an operational notification for a completed reading
type AdminNotifier interface {
	NotifyAdmin(ctx context.Context, tier string) error
}

// AdminNotifyObserver emails the operator on each completed reading.
// Delivery failures are logged and never surfaced to the end user.
type AdminNotifyObserver struct {
	notifier AdminNotifier
	logger   *logrus.Logger
}

// NewAdminNotifyObserver creates a new admin notification observer
func NewAdminNotifyObserver(notifier AdminNotifier, logger *logrus.Logger) Observer {
	return &AdminNotifyObserver{
		notifier: notifier,
		logger:   logger,
	}
}

// OnEvent delivers the admin notification for completed readings
func (o *AdminNotifyObserver) OnEvent(ctx context.Context, event ReadingEvent) {
	if event.EventType != ReadingCompleted {
		return
	}
	if err := o.notifier.NotifyAdmin(ctx, event.Tier); err != nil {
		o.logger.WithError(err).WithField("tier", event.Tier).Error("Admin notification failed")
	}
}

// GetObserverName returns the observer name
func (o *AdminNotifyObserver) GetObserverName() string {
	return "admin_notify_observer"
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// NotifyObservers notifies all observers of an event
func (p *EventPublisher) NotifyObservers(ctx context.Context, event ReadingEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	// Notify observers concurrently; a panicking observer must not crash a request
	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
