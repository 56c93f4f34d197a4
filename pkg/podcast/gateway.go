package podcast

import (
	"context"
	"log/slog"
)

// WAVContentType is the media type for served artifacts.
const WAVContentType = "audio/wav"

// Gateway serves generated audio behind an ownership check. It never
// mutates job state, and artifacts are immutable, so repeated fetches of
// the same ref return identical bytes.
type Gateway struct {
	store     JobStore
	artifacts *ArtifactStore
	logger    *slog.Logger
}

// NewGateway creates an audio gateway.
func NewGateway(store JobStore, artifacts *ArtifactStore, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		store:     store,
		artifacts: artifacts,
		logger:    logger.With("component", "podcast.gateway"),
	}
}

// Fetch returns the audio bytes for one of a job's artifacts.
// index addresses Job.AudioFiles (the combined track is last).
// Fails with ErrJobNotFound for unknown jobs, ErrNoAudio when the job has
// no audio (for any requester) or the index is out of range, and
// ErrForbidden when requester does not own a job that has audio.
func (g *Gateway) Fetch(ctx context.Context, jobID string, index int, requester string) ([]byte, string, error) {
	job, err := g.store.Get(ctx, jobID)
	if err != nil {
		return nil, "", err
	}

	// A job without audio is not found for everyone, owner included.
	if !job.AudioAvailable() {
		return nil, "", ErrNoAudio
	}

	if job.Owner != requester {
		g.logger.Warn("audio access denied",
			"job_id", jobID,
			"requester", requester,
		)
		return nil, "", ErrForbidden
	}

	if index < 0 || index >= len(job.AudioFiles) {
		return nil, "", ErrNoAudio
	}

	data, err := g.artifacts.Read(job.AudioFiles[index])
	if err != nil {
		return nil, "", err
	}

	return data, WAVContentType, nil
}
