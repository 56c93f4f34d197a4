package podcast

import "errors"

// Sentinel errors surfaced to callers of the orchestrator and gateway.
var (
	// ErrJobNotFound is returned for unknown job ids.
	ErrJobNotFound = errors.New("podcast: job not found")

	// ErrInvalidSource is returned synchronously from Submit when the
	// source document is missing or empty. No job is created.
	ErrInvalidSource = errors.New("podcast: invalid source document")

	// ErrInvalidRequest is returned from Submit for unknown style or
	// length values.
	ErrInvalidRequest = errors.New("podcast: invalid generation parameters")

	// ErrForbidden is returned when the requester does not own the job.
	ErrForbidden = errors.New("podcast: access denied")

	// ErrNoAudio is returned when fetching audio from a job that has none.
	ErrNoAudio = errors.New("podcast: no audio available")

	// ErrDocumentNotFound is returned by document stores for unknown refs.
	ErrDocumentNotFound = errors.New("podcast: document not found")

	// ErrArtifactNotFound is returned for unknown audio artifact refs.
	ErrArtifactNotFound = errors.New("podcast: artifact not found")
)
