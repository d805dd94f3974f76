package models

import "encoding/json"

// AnalyzeRequest represents a request for a palm reading
type AnalyzeRequest struct {
	Image string `json:"image"`
	Mode  string `json:"mode,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// CheckoutResponse carries the provider-hosted payment redirect URL
type CheckoutResponse struct {
	URL string `json:"url"`
}

// SendEmailRequest represents a request to deliver a reading by email.
// Result holds either a tier-shaped JSON object or a legacy plain string.
type SendEmailRequest struct {
	Email  string          `json:"email"`
	Result json.RawMessage `json:"result"`
	Date   string          `json:"date,omitempty"`
}

// SendEmailResponse confirms vendor delivery
type SendEmailResponse struct {
	Success bool `json:"success"`
}

// ImagePayload is a parsed data-URL image: MIME type plus base64 body.
// DataURL keeps the original string since vision vendors accept it verbatim.
type ImagePayload struct {
	MIME    string
	Base64  string
	DataURL string
}
