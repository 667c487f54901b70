package models

import (
	"errors"
	"fmt"
)

// ErrNotRaidRelated is returned when the relevance check decides the message
// is not a raid ping. Callers should stay silent instead of reporting a
// failure to the author.
var ErrNotRaidRelated = errors.New("message is not raid-related")

// ErrNoResponse is returned when a provider answered with no usable content.
var ErrNoResponse = errors.New("no response content from provider")

// ErrNoJSON is returned when the model's completion contains no balanced
// JSON object.
var ErrNoJSON = errors.New("no JSON payload found in completion")

// ParseError reports a failed parse attempt. It carries the original message
// and, for malformed model output, a truncated copy of the offending text.
type ParseError struct {
	Message    string  // original chat message
	Raw        string  // offending model output, truncated for logs
	Confidence float64 // always 0 for not-relevant messages
	Err        error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("raid parse failed: %v", e.Err)
	}
	return "raid parse failed"
}

func (e *ParseError) Unwrap() error { return e.Err }

// ServiceError wraps a provider or network failure with provider identity
// and, when available, the upstream HTTP status code.
type ServiceError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s failed with status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// ErrPostprocess signals an internal postprocessor stage failure. Stages are
// expected to always succeed given a validated draft, so seeing this error is
// a bug worth alerting on.
var ErrPostprocess = errors.New("failed to process model response")

// truncateLimit bounds how much raw model output a ParseError keeps.
const truncateLimit = 500

// Truncate shortens raw model output for inclusion in errors and logs.
func Truncate(s string) string {
	if len(s) <= truncateLimit {
		return s
	}
	return s[:truncateLimit] + "..."
}
