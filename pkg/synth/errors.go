package synth

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNoAPIKey is returned when the API key is missing.
	ErrNoAPIKey = errors.New("synth: API key required")

	// ErrNoVoice is returned when a voice profile has no voice set.
	ErrNoVoice = errors.New("synth: voice required")

	// ErrNoEngines is returned when no engines are configured.
	ErrNoEngines = errors.New("synth: no engines available")
)

// Kind classifies a synthesis failure for the pipeline's fallback policy.
type Kind string

const (
	// KindEnvironment marks failures expected to persist for the whole job:
	// bad credentials, unreachable endpoint, engine not installed. The
	// pipeline abandons the engine and promotes the next-ranked one.
	KindEnvironment Kind = "environment"

	// KindLine marks per-line failures that may be transient. The pipeline
	// skips the line and continues on the same engine.
	KindLine Kind = "line"
)

// Error wraps a synthesis failure with engine identity and failure kind.
type Error struct {
	Engine string
	Kind   Kind
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("synth [%s/%s]: %v", e.Engine, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Environment reports whether err is an environment-kind synthesis error.
func Environment(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindEnvironment
}

// WrapError wraps an error with engine identity and kind.
func WrapError(engine string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Engine: engine, Kind: kind, Err: err}
}

// APIError represents an error response from a TTS API.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the API.
	Message string

	// Engine identifies which engine returned the error.
	Engine string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("synth [%s]: API error %d: %s", e.Engine, e.StatusCode, e.Message)
}

// IsUnauthorized returns true if this is an authentication error (401/403).
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsRateLimited returns true if this is a rate limit error (HTTP 429).
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// classify maps an API error to a failure kind. Credential problems persist
// for the whole job; rate limits and server hiccups are line-scoped.
func classify(e *APIError) Kind {
	if e.IsUnauthorized() {
		return KindEnvironment
	}
	return KindLine
}
