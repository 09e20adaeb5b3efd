package ingress

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

func TestValidate_AcceptsAllowedTypes(t *testing.T) {
	v := NewValidator(0)
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	for _, typ := range []string{"image/jpeg", "image/png", "image/webp", "image/heic", "image/heif"} {
		p, err := v.Validate(data, typ)
		if err != nil {
			t.Fatalf("Validate(%q) error = %v", typ, err)
		}
		if p.MIMEType != typ {
			t.Fatalf("Validate(%q) MIMEType = %q", typ, p.MIMEType)
		}
		decoded, err := base64.StdEncoding.DecodeString(p.Base64)
		if err != nil {
			t.Fatalf("payload is not valid base64: %v", err)
		}
		if !bytes.Equal(decoded, data) {
			t.Fatalf("decoded payload does not match input")
		}
	}
}

func TestValidate_JpgAliasNormalizedToJpeg(t *testing.T) {
	v := NewValidator(0)
	p, err := v.Validate([]byte("x"), "image/jpg")
	if err != nil {
		t.Fatalf("Validate(image/jpg) error = %v", err)
	}
	if p.MIMEType != "image/jpeg" {
		t.Fatalf("MIMEType = %q, want image/jpeg", p.MIMEType)
	}
}

func TestValidate_TypeCaseAndParamsIgnored(t *testing.T) {
	v := NewValidator(0)
	p, err := v.Validate([]byte("x"), "IMAGE/PNG; charset=binary")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if p.MIMEType != "image/png" {
		t.Fatalf("MIMEType = %q, want image/png", p.MIMEType)
	}
}

func TestValidate_RejectsGif(t *testing.T) {
	v := NewValidator(0)
	_, err := v.Validate([]byte("GIF89a"), "image/gif")
	if !errors.Is(err, ErrInvalidMediaType) {
		t.Fatalf("Validate(image/gif) error = %v, want ErrInvalidMediaType", err)
	}
}

func TestValidate_RejectsOversizedPayload(t *testing.T) {
	v := NewValidator(16)
	_, err := v.Validate(make([]byte, 17), "image/jpeg")
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("Validate(oversized) error = %v, want ErrPayloadTooLarge", err)
	}

	// At the limit is still allowed.
	if _, err := v.Validate(make([]byte, 16), "image/jpeg"); err != nil {
		t.Fatalf("Validate(at limit) error = %v", err)
	}
}

func TestNewValidator_DefaultCeiling(t *testing.T) {
	if got := NewValidator(0).MaxBytes(); got != DefaultMaxBytes {
		t.Fatalf("MaxBytes() = %d, want %d", got, DefaultMaxBytes)
	}
	if got := NewValidator(-1).MaxBytes(); got != DefaultMaxBytes {
		t.Fatalf("MaxBytes() = %d, want %d", got, DefaultMaxBytes)
	}
}
