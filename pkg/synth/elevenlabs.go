package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"podforge/pkg/audioio"
)

const (
	elevenLabsBaseURL = "https://api.elevenlabs.io"
	engineElevenLabs  = "elevenlabs"

	// pcm_22050 output: 22.05kHz PCM16 mono.
	elevenLabsPCMRate = 22050
)

// ElevenLabs model options
const (
	ModelTurbo   = "eleven_turbo_v2_5"      // Fastest model
	ModelMultiV2 = "eleven_multilingual_v2" // Higher quality, slower
)

// ElevenLabs implements Engine for the ElevenLabs TTS API.
type ElevenLabs struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewElevenLabs creates a new ElevenLabs synthesis engine.
func NewElevenLabs(opts ...Option) (*ElevenLabs, error) {
	cfg := DefaultConfig()
	cfg.ModelID = ModelTurbo
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = elevenLabsBaseURL
	}

	return &ElevenLabs{
		config:  cfg,
		client:  cfg.httpClient(),
		logger:  cfg.Logger.With("component", "synth.elevenlabs"),
		baseURL: baseURL,
	}, nil
}

// Name identifies the engine.
func (e *ElevenLabs) Name() string { return engineElevenLabs }

// Synthesize converts one line of dialogue to PCM16 audio.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string, voice VoiceProfile) (*AudioSegment, error) {
	if voice.Voice == "" {
		return nil, WrapError(engineElevenLabs, KindLine, ErrNoVoice)
	}

	start := time.Now()
	voiceID := ResolveElevenLabsVoice(voice.Voice)

	payload := map[string]interface{}{
		"text":     text,
		"model_id": e.config.ModelID,
		"voice_settings": map[string]interface{}{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(engineElevenLabs, KindLine, fmt.Errorf("marshal payload: %w", err))
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=pcm_22050", e.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(engineElevenLabs, KindLine, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("xi-api-key", e.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := doWithRetry(ctx, e.client, req, body, e.config.MaxRetries, e.config.RetryDelay)
	if err != nil {
		return nil, WrapError(engineElevenLabs, KindEnvironment, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(engineElevenLabs, resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(engineElevenLabs, KindLine, fmt.Errorf("read response: %w", err))
	}

	samples := audioio.BytesToSamples(raw)

	e.logger.Debug("synthesized line",
		"chars", len(text),
		"samples", len(samples),
		"latency_ms", time.Since(start).Milliseconds(),
		"voice", voiceID,
	)

	return &AudioSegment{
		Samples:    samples,
		SampleRate: elevenLabsPCMRate,
		Duration:   time.Duration(len(samples)) * time.Second / elevenLabsPCMRate,
		Engine:     engineElevenLabs,
	}, nil
}

// Health checks API connectivity and key validity.
func (e *ElevenLabs) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", e.baseURL+"/v1/user", nil)
	if err != nil {
		return WrapError(engineElevenLabs, KindEnvironment, err)
	}
	req.Header.Set("xi-api-key", e.config.APIKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return WrapError(engineElevenLabs, KindEnvironment, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return WrapError(engineElevenLabs, KindEnvironment,
			&APIError{StatusCode: resp.StatusCode, Message: "health check failed", Engine: engineElevenLabs})
	}
	return nil
}

// Close releases resources. ElevenLabs uses stateless HTTP, so nothing to do.
func (e *ElevenLabs) Close() error { return nil }
