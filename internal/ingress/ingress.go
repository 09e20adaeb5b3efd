// Package ingress validates uploaded plant images before any upstream call.
package ingress

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxBytes is the upload ceiling (7 MB).
const DefaultMaxBytes = 7 << 20

// ErrInvalidMediaType is returned when the declared content type is not an
// accepted image format.
var ErrInvalidMediaType = errors.New("invalid media type")

// ErrPayloadTooLarge is returned when the upload exceeds the size ceiling.
var ErrPayloadTooLarge = errors.New("payload too large")

// allowedTypes maps accepted MIME types to their normalized form.
// image/jpg is a common client-side alias for image/jpeg.
var allowedTypes = map[string]string{
	"image/jpeg": "image/jpeg",
	"image/jpg":  "image/jpeg",
	"image/png":  "image/png",
	"image/webp": "image/webp",
	"image/heic": "image/heic",
	"image/heif": "image/heif",
}

// Payload is a validated upload, ready for transmission to the model.
type Payload struct {
	// Base64 is the standard-encoded image bytes.
	Base64 string
	// MIMEType is the normalized content type.
	MIMEType string
	// Size is the original byte length.
	Size int
}

// Validator checks uploads against the configured limits.
type Validator struct {
	maxBytes int
}

// NewValidator creates a Validator. maxBytes <= 0 selects DefaultMaxBytes.
func NewValidator(maxBytes int) *Validator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Validator{maxBytes: maxBytes}
}

// MaxBytes returns the configured upload ceiling.
func (v *Validator) MaxBytes() int {
	return v.maxBytes
}

// Validate checks the declared type and size of an upload and returns the
// base64-encoded payload. It performs no I/O.
func (v *Validator) Validate(data []byte, declaredType string) (Payload, error) {
	normalized, ok := allowedTypes[normalizeType(declaredType)]
	if !ok {
		return Payload{}, fmt.Errorf("%w: %q (accepted: JPEG, PNG, WebP, HEIC)", ErrInvalidMediaType, declaredType)
	}

	if len(data) > v.maxBytes {
		return Payload{}, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrPayloadTooLarge, len(data), v.maxBytes)
	}

	return Payload{
		Base64:   base64.StdEncoding.EncodeToString(data),
		MIMEType: normalized,
		Size:     len(data),
	}, nil
}

// normalizeType lowercases the type and drops any media type parameters
// (e.g. "image/png; charset=binary" -> "image/png").
func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

// AcceptedTypes returns the sorted list of accepted (pre-normalization)
// MIME types, for service metadata responses.
func AcceptedTypes() []string {
	return []string{"image/jpeg", "image/jpg", "image/png", "image/webp", "image/heic", "image/heif"}
}
