package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed input. Never retried.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a definitive miss from a lookup. Not retryable.
	ErrNotFound = errors.New("not found")
	// ErrExternalService marks an authority failure that exhausted retries.
	ErrExternalService = errors.New("external service error")
	// ErrPersistence marks a failed write-back to the library store.
	ErrPersistence = errors.New("persistence error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrTransient marks a failure worth retrying (timeout, rate limit, 5xx).
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether the error should be retried with backoff.
func Retryable(err error) bool {
	return errors.Is(err, ErrTransient)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
