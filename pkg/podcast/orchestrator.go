package podcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"podforge/pkg/audioio"
	"podforge/pkg/script"
	"podforge/pkg/synth"
)

// Orchestrator defaults.
const (
	DefaultScriptTimeout      = 120 * time.Second
	DefaultMaxConcurrentSynth = 2
)

// OrchestratorConfig wires the pipeline's collaborators.
type OrchestratorConfig struct {
	Store     JobStore
	Documents DocumentStore
	Generator script.Generator

	// Engines is the ranked synthesis engine list, most preferred first.
	// May be empty: jobs then complete without audio.
	Engines []synth.Engine

	Artifacts *ArtifactStore
	Assembler *audioio.Assembler

	// Voices optionally overrides the per-engine speaker voice maps.
	// Keyed by engine name, then speaker id.
	Voices map[string]map[string]string

	// ScriptTimeout bounds the script generation call.
	ScriptTimeout time.Duration

	// MaxConcurrentSynth bounds how many jobs synthesize at once.
	MaxConcurrentSynth int

	Logger *slog.Logger
}

// Orchestrator drives the podcast pipeline: it accepts generation
// requests, runs one goroutine per job through script generation,
// synthesis, and assembly, and records every state transition in the
// JobStore. Synthesis failures degrade the job instead of failing it;
// the script survives any audio-side outcome.
type Orchestrator struct {
	store     JobStore
	docs      DocumentStore
	generator script.Generator
	engines   []synth.Engine
	artifacts *ArtifactStore
	assembler *audioio.Assembler
	voices    map[string]map[string]string

	scriptTimeout time.Duration
	synthSem      chan struct{}
	logger        *slog.Logger
	wg            sync.WaitGroup
}

// NewOrchestrator creates the pipeline controller.
func NewOrchestrator(cfg OrchestratorConfig) (*Orchestrator, error) {
	if cfg.Store == nil {
		return nil, errors.New("podcast: job store required")
	}
	if cfg.Documents == nil {
		return nil, errors.New("podcast: document store required")
	}
	if cfg.Generator == nil {
		return nil, errors.New("podcast: script generator required")
	}
	if cfg.Artifacts == nil {
		return nil, errors.New("podcast: artifact store required")
	}

	if cfg.Assembler == nil {
		cfg.Assembler = audioio.NewAssembler()
	}
	if cfg.ScriptTimeout <= 0 {
		cfg.ScriptTimeout = DefaultScriptTimeout
	}
	if cfg.MaxConcurrentSynth <= 0 {
		cfg.MaxConcurrentSynth = DefaultMaxConcurrentSynth
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Orchestrator{
		store:         cfg.Store,
		docs:          cfg.Documents,
		generator:     cfg.Generator,
		engines:       cfg.Engines,
		artifacts:     cfg.Artifacts,
		assembler:     cfg.Assembler,
		voices:        cfg.Voices,
		scriptTimeout: cfg.ScriptTimeout,
		synthSem:      make(chan struct{}, cfg.MaxConcurrentSynth),
		logger:        cfg.Logger.With("component", "podcast.orchestrator"),
	}, nil
}

// SubmitRequest carries one generation request.
type SubmitRequest struct {
	Owner     string
	SourceRef string
	Style     script.Style
	Length    script.Length
}

// Submit validates the request, creates a PENDING job, and starts its
// pipeline in the background. Returns the job id immediately.
// ErrInvalidSource and ErrInvalidRequest are the only synchronous
// failures; everything later is recorded on the job.
func (o *Orchestrator) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	if req.Style == "" {
		req.Style = script.StyleConversational
	}
	if req.Length == "" {
		req.Length = script.Length10Min
	}
	if !script.ValidStyle(req.Style) {
		return "", fmt.Errorf("%w: unknown style %q", ErrInvalidRequest, req.Style)
	}
	if !script.ValidLength(req.Length) {
		return "", fmt.Errorf("%w: unknown length %q", ErrInvalidRequest, req.Length)
	}

	doc, err := o.docs.Get(ctx, req.SourceRef)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidSource, req.SourceRef)
	}
	if strings.TrimSpace(doc.Content) == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrInvalidSource, req.SourceRef)
	}

	job := &Job{
		Owner:        req.Owner,
		SourceRef:    req.SourceRef,
		Style:        req.Style,
		TargetLength: req.Length,
		Status:       StatusPending,
	}
	if err := o.store.Create(ctx, job); err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}

	o.logger.Info("job submitted",
		"job_id", job.ID,
		"source", req.SourceRef,
		"style", req.Style,
		"length", req.Length,
	)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		// Pipeline execution outlives the submit request.
		o.run(context.Background(), job.ID, doc)
	}()

	return job.ID, nil
}

// Status returns a snapshot of the job, or ErrJobNotFound.
func (o *Orchestrator) Status(ctx context.Context, jobID string) (*Job, error) {
	return o.store.Get(ctx, jobID)
}

// Jobs returns snapshots of all jobs owned by owner, newest first.
func (o *Orchestrator) Jobs(ctx context.Context, owner string) ([]*Job, error) {
	return o.store.ListByOwner(ctx, owner)
}

// Cancel requests cancellation. The pipeline honors it at the next stage
// boundary; terminal jobs are unaffected.
func (o *Orchestrator) Cancel(ctx context.Context, jobID string) error {
	return o.store.RequestCancel(ctx, jobID)
}

// Wait blocks until all running pipelines finish. For shutdown and tests.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// run drives one job through the pipeline stages.
func (o *Orchestrator) run(ctx context.Context, jobID string, doc *Document) {
	logger := o.logger.With("job_id", jobID)

	// Stage 1: script generation. Fatal on failure; no script fallback.
	if !o.transition(ctx, jobID, StatusScriptRunning, nil) {
		return
	}

	job, err := o.store.Get(ctx, jobID)
	if err != nil {
		logger.Error("job disappeared mid-pipeline", "error", err)
		return
	}

	scriptCtx, cancel := context.WithTimeout(ctx, o.scriptTimeout)
	segments, err := o.generator.Generate(scriptCtx, script.Request{
		Title:   doc.Name,
		Content: doc.Content,
		Style:   job.Style,
		Length:  job.TargetLength,
	})
	cancel()

	if err != nil {
		logger.Error("script generation failed", "error", err)
		o.fail(ctx, jobID, &JobError{Kind: KindScriptFailed, Message: err.Error()})
		return
	}

	if !o.update(ctx, jobID, func(j *Job) {
		j.Script = segments
		j.Status = StatusScriptReady
	}) {
		return
	}
	logger.Info("script ready", "segments", len(segments))

	if o.cancelled(ctx, jobID) {
		o.fail(ctx, jobID, &JobError{Kind: KindCancelled, Message: "cancelled before synthesis"})
		return
	}

	// Stage 2: synthesis. Bounded across jobs; never fatal.
	if !o.transition(ctx, jobID, StatusSynthRunning, nil) {
		return
	}
	o.synthSem <- struct{}{}
	result := o.synthesize(ctx, logger, segments)
	<-o.synthSem

	if o.cancelled(ctx, jobID) {
		o.fail(ctx, jobID, &JobError{Kind: KindCancelled, Message: "cancelled before assembly"})
		return
	}

	if len(result.audio) == 0 {
		o.degrade(ctx, jobID, result.noAudioError())
		logger.Warn("job complete without audio", "reason", result.noAudioError().Kind)
		return
	}

	// Stage 3: assembly and artifact persistence.
	refs, err := o.persistAudio(jobID, result.audio)
	if err != nil {
		logger.Error("assembly failed", "error", err)
		o.degrade(ctx, jobID, &JobError{Kind: KindAssemblyFailed, Message: err.Error()})
		return
	}

	warning := result.warning()
	o.update(ctx, jobID, func(j *Job) {
		j.Status = StatusComplete
		j.AudioFiles = refs
		j.Error = warning
	})
	logger.Info("job complete",
		"segments", len(segments),
		"synthesized", len(result.audio),
		"engine", result.engineUsed,
		"fallback", result.fallback,
	)
}

// synthResult accumulates the synthesis stage outcome.
type synthResult struct {
	audio      []*synth.AudioSegment
	engineUsed string
	fallback   bool
	skipped    int
	envFailure bool
	lastEngine string
	lastErr    error
}

// noAudioError explains a zero-audio outcome.
func (r *synthResult) noAudioError() *JobError {
	e := &JobError{Engine: r.lastEngine}
	switch {
	case r.envFailure || r.engineUsed == "":
		e.Kind = KindEngineUnavailable
		e.Message = "no synthesis engine available"
	default:
		e.Kind = KindSynthesisFailed
		e.Message = "all segments failed to synthesize"
	}
	if r.lastErr != nil {
		e.Message = r.lastErr.Error()
	}
	return e
}

// warning reports soft degradation on an otherwise COMPLETE job.
func (r *synthResult) warning() *JobError {
	if !r.fallback && r.skipped == 0 {
		return nil
	}
	msg := fmt.Sprintf("audio produced by engine %q", r.engineUsed)
	if r.fallback {
		msg += " after primary engine failed"
	}
	if r.skipped > 0 {
		msg += fmt.Sprintf("; %d segment(s) skipped", r.skipped)
	}
	return &JobError{Kind: KindEngineFallback, Message: msg, Engine: r.engineUsed}
}

// synthesize attempts every script segment in order on the ranked engine
// list. Engine selection happens once up front; an environment-level
// failure mid-script promotes the next available engine for the entire
// remaining script. Per-line failures are skipped, not retried.
func (o *Orchestrator) synthesize(ctx context.Context, logger *slog.Logger, segments []script.Segment) *synthResult {
	res := &synthResult{}

	rank := 0
	engine := o.nextAvailable(ctx, logger, &rank, res)
	if engine == nil {
		return res
	}
	res.engineUsed = engine.Name()
	// Starting on anything but the top-ranked engine is already a fallback.
	res.fallback = rank > 1

	for i := 0; i < len(segments); {
		seg := segments[i]
		voice := synth.VoiceFor(engine.Name(), seg.Speaker, o.voices[engine.Name()])

		audio, err := engine.Synthesize(ctx, seg.Text, voice)
		if err == nil {
			audio.Speaker = seg.Speaker
			res.audio = append(res.audio, audio)
			i++
			continue
		}

		res.lastEngine = engine.Name()
		res.lastErr = err

		if synth.Environment(err) {
			logger.Warn("engine failed, switching for remaining script",
				"engine", engine.Name(),
				"segment", i,
				"error", err,
			)
			engine = o.nextAvailable(ctx, logger, &rank, res)
			if engine == nil {
				return res
			}
			res.engineUsed = engine.Name()
			res.fallback = true
			continue // retry the same segment on the new engine
		}

		logger.Warn("segment synthesis failed, skipping",
			"engine", engine.Name(),
			"segment", i,
			"speaker", seg.Speaker,
			"error", err,
		)
		res.skipped++
		i++
	}

	return res
}

// nextAvailable walks the ranked engine list from *rank, returning the
// first engine whose health probe passes. Advances *rank past the
// returned engine.
func (o *Orchestrator) nextAvailable(ctx context.Context, logger *slog.Logger, rank *int, res *synthResult) synth.Engine {
	for ; *rank < len(o.engines); *rank++ {
		engine := o.engines[*rank]
		if err := engine.Health(ctx); err != nil {
			logger.Warn("engine unavailable",
				"engine", engine.Name(),
				"rank", *rank,
				"error", err,
			)
			res.envFailure = true
			res.lastEngine = engine.Name()
			res.lastErr = err
			continue
		}
		*rank++
		return engine
	}
	return nil
}

// persistAudio writes per-segment WAVs plus the combined track, returning
// artifact refs with the combined track last.
func (o *Orchestrator) persistAudio(jobID string, audio []*synth.AudioSegment) ([]string, error) {
	assemblerSegs := make([]audioio.Segment, len(audio))
	for i, a := range audio {
		assemblerSegs[i] = audioio.Segment{
			Speaker:    a.Speaker,
			Samples:    a.Samples,
			SampleRate: a.SampleRate,
		}
	}

	combined, err := o.assembler.Assemble(assemblerSegs)
	if err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(audio)+1)
	for i, seg := range assemblerSegs {
		data, err := o.assembler.EncodeSegment(seg)
		if err != nil {
			return nil, err
		}
		ref, err := o.artifacts.Save(jobID, SegmentFileName(i, seg.Speaker), data)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	ref, err := o.artifacts.Save(jobID, CombinedFileName, combined)
	if err != nil {
		return nil, err
	}
	return append(refs, ref), nil
}

// cancelled reports whether cancellation was requested for the job.
func (o *Orchestrator) cancelled(ctx context.Context, jobID string) bool {
	job, err := o.store.Get(ctx, jobID)
	return err == nil && job.CancelRequested
}

// transition moves the job to status, validating the state machine edge.
func (o *Orchestrator) transition(ctx context.Context, jobID string, status Status, jobErr *JobError) bool {
	return o.update(ctx, jobID, func(j *Job) {
		j.Status = status
		j.Error = jobErr
	})
}

// fail moves the job to FAILED with the given error.
func (o *Orchestrator) fail(ctx context.Context, jobID string, jobErr *JobError) {
	o.update(ctx, jobID, func(j *Job) {
		j.Status = StatusFailed
		j.Error = jobErr
	})
}

// degrade completes the job without audio; the script stays usable.
func (o *Orchestrator) degrade(ctx context.Context, jobID string, jobErr *JobError) {
	o.update(ctx, jobID, func(j *Job) {
		j.Status = StatusCompleteNoAudio
		j.Error = jobErr
	})
}

// update applies fn to a fresh snapshot and writes it back, enforcing
// monotonic transitions. Returns false if the job vanished or the edge
// was invalid.
func (o *Orchestrator) update(ctx context.Context, jobID string, fn func(*Job)) bool {
	job, err := o.store.Get(ctx, jobID)
	if err != nil {
		o.logger.Error("job disappeared mid-pipeline", "job_id", jobID, "error", err)
		return false
	}

	from := job.Status
	fn(job)
	if job.Status != from && !ValidTransition(from, job.Status) {
		o.logger.Error("invalid status transition",
			"job_id", jobID,
			"from", from,
			"to", job.Status,
		)
		return false
	}

	if err := o.store.Update(ctx, job); err != nil {
		o.logger.Error("job update failed", "job_id", jobID, "error", err)
		return false
	}
	return true
}
