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
	openAIBaseURL = "https://api.openai.com/v1"
	engineOpenAI  = "openai"

	// OpenAI returns 24kHz PCM16 mono for response_format "pcm".
	openAIPCMRate = 24000
)

// OpenAI voice options
const (
	VoiceAlloy   = "alloy"   // Neutral voice
	VoiceEcho    = "echo"    // Male voice
	VoiceFable   = "fable"   // British accent
	VoiceOnyx    = "onyx"    // Deep male voice
	VoiceNova    = "nova"    // Female voice
	VoiceShimmer = "shimmer" // Soft female voice
)

// OpenAI model options
const (
	ModelTTS1   = "tts-1"    // Standard quality, faster
	ModelTTS1HD = "tts-1-hd" // Higher quality, slower
)

// OpenAI implements Engine for OpenAI TTS.
type OpenAI struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewOpenAI creates a new OpenAI synthesis engine.
func NewOpenAI(opts ...Option) (*OpenAI, error) {
	cfg := DefaultConfig()
	cfg.ModelID = ModelTTS1
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = openAIBaseURL
	}

	return &OpenAI{
		config:  cfg,
		client:  cfg.httpClient(),
		logger:  cfg.Logger.With("component", "synth.openai"),
		baseURL: baseURL,
	}, nil
}

// Name identifies the engine.
func (o *OpenAI) Name() string { return engineOpenAI }

// Synthesize converts one line of dialogue to PCM16 audio.
func (o *OpenAI) Synthesize(ctx context.Context, text string, voice VoiceProfile) (*AudioSegment, error) {
	if voice.Voice == "" {
		voice.Voice = VoiceNova
	}

	start := time.Now()

	payload := map[string]interface{}{
		"model":           o.config.ModelID,
		"voice":           voice.Voice,
		"input":           text,
		"response_format": "pcm",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(engineOpenAI, KindLine, fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(engineOpenAI, KindLine, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := doWithRetry(ctx, o.client, req, body, o.config.MaxRetries, o.config.RetryDelay)
	if err != nil {
		// Connection-level failure: the endpoint is unreachable and will
		// stay that way for the rest of the job.
		return nil, WrapError(engineOpenAI, KindEnvironment, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(engineOpenAI, resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(engineOpenAI, KindLine, fmt.Errorf("read response: %w", err))
	}

	samples := audioio.BytesToSamples(raw)
	latency := time.Since(start).Milliseconds()

	o.logger.Debug("synthesized line",
		"chars", len(text),
		"samples", len(samples),
		"latency_ms", latency,
		"voice", voice.Voice,
	)

	return &AudioSegment{
		Samples:    samples,
		SampleRate: openAIPCMRate,
		Duration:   time.Duration(len(samples)) * time.Second / openAIPCMRate,
		Engine:     engineOpenAI,
	}, nil
}

// Health checks API connectivity and key validity.
func (o *OpenAI) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", o.baseURL+"/models", nil)
	if err != nil {
		return WrapError(engineOpenAI, KindEnvironment, err)
	}
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return WrapError(engineOpenAI, KindEnvironment, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return WrapError(engineOpenAI, KindEnvironment,
			&APIError{StatusCode: resp.StatusCode, Message: "health check failed", Engine: engineOpenAI})
	}
	return nil
}

// Close releases resources. OpenAI uses stateless HTTP, so nothing to do.
func (o *OpenAI) Close() error { return nil }

// doWithRetry retries transient failures (429, 5xx) with a fixed delay.
// The request body is replayed on each attempt.
func doWithRetry(ctx context.Context, client *http.Client, req *http.Request, body []byte, maxRetries int, delay time.Duration) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			req = req.Clone(ctx)
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		resp, err = client.Do(req)
		if err != nil {
			continue
		}
		if (resp.StatusCode == 429 || resp.StatusCode >= 500) && attempt < maxRetries {
			resp.Body.Close()
			continue
		}
		return resp, nil
	}

	if err != nil {
		return nil, err
	}
	return resp, nil
}

// parseAPIError reads an error response body and classifies the failure.
func parseAPIError(engine string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(raw)),
		Engine:     engine,
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &envelope) == nil {
		if envelope.Error.Message != "" {
			apiErr.Message = envelope.Error.Message
		} else if envelope.Detail != "" {
			apiErr.Message = envelope.Detail
		}
	}

	return WrapError(engine, classify(apiErr), apiErr)
}
