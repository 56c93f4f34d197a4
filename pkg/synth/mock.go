package synth

import (
	"context"
	"sync"
	"time"
)

// Mock implements Engine for testing.
// All methods can be customized via function fields.
type Mock struct {
	// EngineName is returned by Name. Defaults to "mock".
	EngineName string

	// SynthesizeFunc is called when Synthesize is invoked.
	// If nil, returns silent audio of appropriate length.
	SynthesizeFunc func(ctx context.Context, text string, voice VoiceProfile) (*AudioSegment, error)

	// HealthFunc is called when Health is invoked.
	// If nil, returns nil (healthy).
	HealthFunc func(ctx context.Context) error

	// CloseFunc is called when Close is invoked.
	// If nil, returns nil.
	CloseFunc func() error

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method string
	Text   string
	Voice  string
	Time   time.Time
}

// NewMock creates a new mock engine producing silent PCM at 22.05kHz.
// Audio length scales with text length (~20ms per character) so assembly
// tests see realistic pacing.
func NewMock() *Mock {
	return &Mock{
		SynthesizeFunc: func(ctx context.Context, text string, voice VoiceProfile) (*AudioSegment, error) {
			samplesPerChar := 441 // ~20ms at 22.05kHz
			samples := make([]int16, len(text)*samplesPerChar)

			return &AudioSegment{
				Samples:    samples,
				SampleRate: 22050,
				Duration:   time.Duration(len(text)) * 20 * time.Millisecond,
				Engine:     "mock",
			}, nil
		},
	}
}

// Name identifies the engine.
func (m *Mock) Name() string {
	if m.EngineName != "" {
		return m.EngineName
	}
	return "mock"
}

// Synthesize calls SynthesizeFunc and records the call.
func (m *Mock) Synthesize(ctx context.Context, text string, voice VoiceProfile) (*AudioSegment, error) {
	m.recordCall("Synthesize", text, voice.Voice)
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text, voice)
	}
	return nil, WrapError(m.Name(), KindEnvironment, ErrNoEngines)
}

// Health calls HealthFunc and records the call.
func (m *Mock) Health(ctx context.Context) error {
	m.recordCall("Health", "", "")
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close calls CloseFunc and records the call.
func (m *Mock) Close() error {
	m.recordCall("Close", "", "")
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// recordCall adds a call to the tracking list.
func (m *Mock) recordCall(method, text, voice string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{
		Method: method,
		Text:   text,
		Voice:  voice,
		Time:   time.Now(),
	})
}

// Calls returns all recorded method calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Unavailable returns a mock whose Health and Synthesize both fail with an
// environment-kind error, simulating an engine that never came up.
func Unavailable(name string) *Mock {
	err := WrapError(name, KindEnvironment, ErrNoEngines)
	return &Mock{
		EngineName: name,
		SynthesizeFunc: func(ctx context.Context, text string, voice VoiceProfile) (*AudioSegment, error) {
			return nil, err
		},
		HealthFunc: func(ctx context.Context) error {
			return err
		},
	}
}

// Flaky wraps a mock so that lines matching shouldFail return a per-line
// error while everything else synthesizes normally.
func Flaky(m *Mock, shouldFail func(text string) bool) *Mock {
	inner := m.SynthesizeFunc
	m.SynthesizeFunc = func(ctx context.Context, text string, voice VoiceProfile) (*AudioSegment, error) {
		if shouldFail(text) {
			return nil, WrapError(m.Name(), KindLine, &APIError{StatusCode: 500, Message: "synthesis failed", Engine: m.Name()})
		}
		if inner != nil {
			return inner(ctx, text, voice)
		}
		return nil, WrapError(m.Name(), KindEnvironment, ErrNoEngines)
	}
	return m
}

// Verify engine implementations at compile time.
var (
	_ Engine = (*Mock)(nil)
	_ Engine = (*OpenAI)(nil)
	_ Engine = (*ElevenLabs)(nil)
)
