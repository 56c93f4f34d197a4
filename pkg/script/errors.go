package script

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
var (
	// ErrNoAPIKey is returned when the API key is missing.
	ErrNoAPIKey = errors.New("script: API key required")

	// ErrEmptyDocument is returned when the source document has no content.
	ErrEmptyDocument = errors.New("script: empty source document")

	// ErrEmptyScript is returned when the provider produced no dialogue.
	ErrEmptyScript = errors.New("script: provider returned empty script")

	// ErrMalformedScript is returned when the reply cannot be parsed into
	// speaker/text pairs.
	ErrMalformedScript = errors.New("script: cannot parse provider output")

	// ErrMissingSpeaker is returned when a script has no lines for one of
	// the two speakers.
	ErrMissingSpeaker = errors.New("script: output must include both speakers")
)

// GenerationError wraps any script generation failure. The pipeline treats
// it as fatal: there is no script fallback.
type GenerationError struct {
	Err error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("script generation failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// wrapGeneration wraps err in a GenerationError unless it already is one.
func wrapGeneration(err error) error {
	if err == nil {
		return nil
	}
	var ge *GenerationError
	if errors.As(err, &ge) {
		return err
	}
	return &GenerationError{Err: err}
}
