package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "palm-reader-api/internal/errors"
	"palm-reader-api/pkg/models"
)

const defaultEndpoint = "https://api.brevo.com/v3/smtp/email"

// KeyResolver yields the email vendor credential at call time
type KeyResolver func() (string, error)

// Dispatcher delivers readings through the Brevo transactional-email API
type Dispatcher struct {
	client      *http.Client
	endpoint    string
	resolveKey  KeyResolver
	senderName  string
	senderEmail string
	adminEmail  string
}

// Options configure the email dispatcher
type Options struct {
	Endpoint    string
	ResolveKey  KeyResolver
	SenderName  string
	SenderEmail string
	AdminEmail  string
}

// NewDispatcher creates a Brevo email dispatcher
func NewDispatcher(opts Options) *Dispatcher {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	// Connection pooling sized for occasional transactional sends
	transport := &http.Transport{
		MaxIdleConns:          5,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Dispatcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		endpoint:    endpoint,
		resolveKey:  opts.ResolveKey,
		senderName:  opts.SenderName,
		senderEmail: opts.SenderEmail,
		adminEmail:  opts.AdminEmail,
	}
}

type brevoRecipient struct {
	Email string `json:"email"`
}

type brevoSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type brevoMessage struct {
	Sender      brevoSender      `json:"sender"`
	To          []brevoRecipient `json:"to"`
	Subject     string           `json:"subject"`
	HTMLContent string           `json:"htmlContent"`
}

type brevoError struct {
	Message string `json:"message"`
}

// SendReading renders the reading into HTML and delivers it to the recipient
func (d *Dispatcher) SendReading(ctx context.Context, req models.SendEmailRequest) error {
	html, err := RenderReading(req.Result, req.Date)
	if err != nil {
		return apperrors.NewInternalError("failed to render reading email", err)
	}
	return d.send(ctx, req.Email, "✨ Votre lecture des lignes de la main", html)
}

// NotifyAdmin sends a fixed-template operational email to the operator address
func (d *Dispatcher) NotifyAdmin(ctx context.Context, tier string) error {
	html, err := RenderAdminNotification(tier, time.Now())
	if err != nil {
		return apperrors.NewInternalError("failed to render admin notification", err)
	}
	subject := fmt.Sprintf("Nouvelle lecture %s sur liremamain.fr", tierLabel(tier))
	return d.send(ctx, d.adminEmail, subject, html)
}

// send performs one authenticated call to the vendor endpoint. The
// credential is resolved per call, never cached.
func (d *Dispatcher) send(ctx context.Context, to, subject, html string) error {
	key, err := d.resolveKey()
	if err != nil {
		return err
	}

	message := brevoMessage{
		Sender:      brevoSender{Name: d.senderName, Email: d.senderEmail},
		To:          []brevoRecipient{{Email: to}},
		Subject:     subject,
		HTMLContent: html,
	}
	body, err := json.Marshal(message)
	if err != nil {
		return apperrors.NewInternalError("failed to encode email payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return apperrors.NewInternalError("failed to build email request", err)
	}
	req.Header.Set("api-key", key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return apperrors.NewVendorError("email delivery failed", http.StatusInternalServerError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var vendorErr brevoError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err := json.Unmarshal(raw, &vendorErr); err != nil || vendorErr.Message == "" {
		vendorErr.Message = "unknown error"
	}
	return apperrors.NewVendorError(fmt.Sprintf("Brevo error: %s", vendorErr.Message), resp.StatusCode, nil)
}
