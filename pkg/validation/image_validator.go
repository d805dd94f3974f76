package validation

import (
	"regexp"
	"strings"

	apperrors "palm-reader-api/internal/errors"
	"palm-reader-api/pkg/models"
)

// Strict data-URL shape: data:<mime>;base64,<data>. Anything else is
// rejected before a single outbound call is made.
var dataURLPattern = regexp.MustCompile(`^data:([a-zA-Z0-9.+-]+/[a-zA-Z0-9.+-]+);base64,([A-Za-z0-9+/=]+)$`)

// ImageValidator handles data-URL image payload validation
type ImageValidator struct {
	allowedPrefixes []string
}

// NewImageValidator creates an image validator that accepts image/* MIME types
func NewImageValidator() *ImageValidator {
	return &ImageValidator{
		allowedPrefixes: []string{"image/"},
	}
}

// NewImageValidatorWithPrefixes creates an image validator with custom MIME prefixes
func NewImageValidatorWithPrefixes(prefixes []string) *ImageValidator {
	return &ImageValidator{
		allowedPrefixes: prefixes,
	}
}

// Parse validates a data-URL image payload and returns its parts
func (v *ImageValidator) Parse(dataURL string) (models.ImagePayload, error) {
	if strings.TrimSpace(dataURL) == "" {
		return models.ImagePayload{}, apperrors.NewValidationError("image is required", nil)
	}

	match := dataURLPattern.FindStringSubmatch(dataURL)
	if match == nil {
		return models.ImagePayload{}, apperrors.NewValidationError("image must be a base64 data URL", nil)
	}

	mime := match[1]
	if !v.isMIMEAllowed(mime) {
		return models.ImagePayload{}, apperrors.NewValidationError("image MIME type not allowed", nil)
	}

	return models.ImagePayload{
		MIME:    mime,
		Base64:  match[2],
		DataURL: dataURL,
	}, nil
}

// isMIMEAllowed checks the MIME type against the allowed prefix list
func (v *ImageValidator) isMIMEAllowed(mime string) bool {
	for _, prefix := range v.allowedPrefixes {
		if strings.HasPrefix(mime, prefix) {
			return true
		}
	}
	return false
}
