// Package podcast implements the asynchronous podcast-generation pipeline:
// job lifecycle, script generation orchestration, ranked-engine speech
// synthesis with graceful degradation, audio assembly, and gated delivery
// of the result.
package podcast

import (
	"time"

	"podforge/pkg/script"
)

// Status is the job lifecycle state. Transitions are monotonic and
// validated by ValidTransition; a job never regresses.
type Status string

// Job statuses.
const (
	StatusPending         Status = "PENDING"
	StatusScriptRunning   Status = "SCRIPT_RUNNING"
	StatusScriptReady     Status = "SCRIPT_READY"
	StatusSynthRunning    Status = "SYNTH_RUNNING"
	StatusComplete        Status = "COMPLETE"
	StatusCompleteNoAudio Status = "COMPLETE_NO_AUDIO"
	StatusFailed          Status = "FAILED"
)

// Terminal reports whether s is a terminal status.
func (s Status) Terminal() bool {
	switch s {
	case StatusComplete, StatusCompleteNoAudio, StatusFailed:
		return true
	}
	return false
}

// ValidTransition enforces the allowed job state machine edges.
func ValidTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusScriptRunning || to == StatusFailed
	case StatusScriptRunning:
		return to == StatusScriptReady || to == StatusFailed
	case StatusScriptReady:
		return to == StatusSynthRunning || to == StatusCompleteNoAudio || to == StatusFailed
	case StatusSynthRunning:
		return to == StatusComplete || to == StatusCompleteNoAudio || to == StatusFailed
	default:
		return false
	}
}

// ErrorKind classifies a job failure or degradation for clients.
type ErrorKind string

// Job error kinds.
const (
	// KindScriptFailed is fatal: script generation failed, the job is FAILED.
	KindScriptFailed ErrorKind = "SCRIPT_GENERATION_FAILED"

	// KindEngineUnavailable is soft: no synthesis engine came up, the
	// script is still delivered.
	KindEngineUnavailable ErrorKind = "ENGINE_UNAVAILABLE"

	// KindSynthesisFailed is soft: engines were up but produced no audio.
	KindSynthesisFailed ErrorKind = "SYNTHESIS_FAILED"

	// KindAssemblyFailed is soft: segments synthesized but could not be
	// merged into one track.
	KindAssemblyFailed ErrorKind = "ASSEMBLY_FAILED"

	// KindEngineFallback is a warning on COMPLETE jobs: audio was produced
	// by a lower-ranked engine, or some lines were skipped.
	KindEngineFallback ErrorKind = "ENGINE_FALLBACK"

	// KindCancelled marks a job cancelled before completion.
	KindCancelled ErrorKind = "CANCELLED"
)

// JobError is the structured error surfaced to polling clients. Engine
// records which synthesis engine was involved, when relevant.
type JobError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Engine  string    `json:"engine,omitempty"`
}

// Job is one podcast-generation request and its evolving state.
// Only the job's own pipeline goroutine mutates it after creation;
// everyone else reads snapshots through the JobStore.
type Job struct {
	ID           string           `json:"id"`
	Owner        string           `json:"owner"`
	SourceRef    string           `json:"source_ref"`
	Style        script.Style     `json:"style"`
	TargetLength script.Length    `json:"target_length"`
	Status       Status           `json:"status"`
	Script       []script.Segment `json:"script,omitempty"`

	// AudioFiles are artifact refs in playback order: one WAV per
	// synthesized segment, then the combined track last. Set only on
	// COMPLETE.
	AudioFiles []string `json:"audio_files,omitempty"`

	Error *JobError `json:"error,omitempty"`

	// CancelRequested is set by an external cancel request and checked by
	// the pipeline between stages.
	CancelRequested bool `json:"cancel_requested,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AudioAvailable reports whether the job has a playable combined track.
func (j *Job) AudioAvailable() bool {
	return j.Status == StatusComplete && len(j.AudioFiles) > 0
}

// CombinedAudio returns the ref of the assembled track, or "".
func (j *Job) CombinedAudio() string {
	if !j.AudioAvailable() {
		return ""
	}
	return j.AudioFiles[len(j.AudioFiles)-1]
}

// Clone returns a deep copy safe to hand to readers.
func (j *Job) Clone() *Job {
	out := *j
	if j.Script != nil {
		out.Script = make([]script.Segment, len(j.Script))
		copy(out.Script, j.Script)
	}
	if j.AudioFiles != nil {
		out.AudioFiles = make([]string, len(j.AudioFiles))
		copy(out.AudioFiles, j.AudioFiles)
	}
	if j.Error != nil {
		e := *j.Error
		out.Error = &e
	}
	return &out
}
