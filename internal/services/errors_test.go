package services_test

import (
	"errors"
	"strings"
	"testing"

	"medley/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	underlying := errors.New("boom")
	err := services.Wrap(services.ErrValidation, "classify", "analyze", "track count negative", underlying)

	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if !errors.Is(err, underlying) {
		t.Fatalf("expected underlying error preserved, got %v", err)
	}
	for _, fragment := range []string{"classify", "analyze", "track count negative"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("error %q missing fragment %q", err, fragment)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "musicbrainz", "lookup", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !services.Retryable(err) {
		t.Fatal("expected transient errors to be retryable")
	}
}

func TestRetryable(t *testing.T) {
	if services.Retryable(services.Wrap(services.ErrNotFound, "musicbrainz", "lookup", "", nil)) {
		t.Fatal("not-found must not be retryable")
	}
	if services.Retryable(services.Wrap(services.ErrValidation, "classify", "analyze", "", nil)) {
		t.Fatal("validation must not be retryable")
	}
}
