// Package synth provides a unified interface for speech synthesis engines.
//
// The package supports multiple TTS backends including OpenAI (built-in
// voices) and ElevenLabs (custom voice cloning). All engines implement the
// Engine interface, enabling the podcast pipeline to walk a ranked engine
// list and fall back when an engine is unavailable, without changing caller
// code.
//
// Example usage:
//
//	engine, _ := synth.NewOpenAI(
//	    synth.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	)
//	defer engine.Close()
//
//	seg, _ := engine.Synthesize(ctx, "Hello world", synth.VoiceProfile{Voice: "nova"})
//	// seg.Samples contains PCM16 mono audio
package synth

import (
	"context"
	"time"
)

// Engine is the speech synthesis interface.
// All implementations must satisfy this interface.
type Engine interface {
	// Name identifies the engine for logging and job diagnostics.
	Name() string

	// Synthesize converts one line of dialogue to audio using the given
	// voice. Failures carry an Error whose Kind distinguishes
	// environment-level problems from per-line ones.
	Synthesize(ctx context.Context, text string, voice VoiceProfile) (*AudioSegment, error)

	// Health checks engine connectivity and credential validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the engine.
	Close() error
}

// VoiceProfile selects a voice for one speaker.
// Voice is engine-specific: a preset name for OpenAI, a voice ID for
// ElevenLabs.
type VoiceProfile struct {
	// Speaker is the script speaker this voice belongs to.
	Speaker string

	// Voice is the engine-specific voice identifier.
	Voice string
}

// AudioSegment is the synthesized audio for one line of dialogue.
type AudioSegment struct {
	// Speaker is filled in by the caller from the script segment.
	Speaker string

	// Samples are PCM16 mono samples at SampleRate.
	Samples []int16

	// SampleRate in Hz.
	SampleRate int

	// Duration is the playback duration.
	Duration time.Duration

	// Engine records which engine produced the audio.
	Engine string
}
