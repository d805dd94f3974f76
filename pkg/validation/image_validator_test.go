package validation

import (
	"strings"
	"testing"

	apperrors "palm-reader-api/internal/errors"
)

func TestParse_ValidDataURL(t *testing.T) {
	validator := NewImageValidator()

	payload, err := validator.Parse("data:image/jpeg;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("Expected valid payload, got: %v", err)
	}
	if payload.MIME != "image/jpeg" {
		t.Errorf("Expected MIME image/jpeg, got %q", payload.MIME)
	}
	if payload.Base64 != "aGVsbG8=" {
		t.Errorf("Expected base64 body, got %q", payload.Base64)
	}
	if payload.DataURL != "data:image/jpeg;base64,aGVsbG8=" {
		t.Errorf("Expected original data URL preserved, got %q", payload.DataURL)
	}
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		dataURL string
		message string
	}{
		{"empty string", "", "image is required"},
		{"whitespace only", "   ", "image is required"},
		{"plain base64 without scheme", "aGVsbG8=", "image must be a base64 data URL"},
		{"http url", "https://example.com/palm.jpg", "image must be a base64 data URL"},
		{"missing base64 marker", "data:image/png,aGVsbG8=", "image must be a base64 data URL"},
		{"missing mime type", "data:;base64,aGVsbG8=", "image must be a base64 data URL"},
		{"invalid base64 characters", "data:image/png;base64,aGVs bG8=", "image must be a base64 data URL"},
		{"non-image mime type", "data:application/pdf;base64,aGVsbG8=", "image MIME type not allowed"},
		{"text mime type", "data:text/html;base64,aGVsbG8=", "image MIME type not allowed"},
	}

	validator := NewImageValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validator.Parse(tt.dataURL)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				t.Errorf("Expected validation error type, got: %v", err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Expected message %q, got: %v", tt.message, err)
			}
		})
	}
}

func TestParse_AcceptedImageTypes(t *testing.T) {
	validator := NewImageValidator()

	for _, mime := range []string{"image/jpeg", "image/png", "image/webp", "image/heic"} {
		payload, err := validator.Parse("data:" + mime + ";base64,aGVsbG8=")
		if err != nil {
			t.Errorf("Expected %s to be accepted, got: %v", mime, err)
			continue
		}
		if payload.MIME != mime {
			t.Errorf("Expected MIME %q, got %q", mime, payload.MIME)
		}
	}
}

func TestParse_CustomPrefixes(t *testing.T) {
	validator := NewImageValidatorWithPrefixes([]string{"image/png"})

	if _, err := validator.Parse("data:image/png;base64,aGVsbG8="); err != nil {
		t.Errorf("Expected image/png to be accepted, got: %v", err)
	}
	if _, err := validator.Parse("data:image/jpeg;base64,aGVsbG8="); err == nil {
		t.Error("Expected image/jpeg to be rejected with a png-only prefix list")
	}
}
