package synth

import (
	"context"
	"strings"
	"testing"
)

func TestMockSynthesize(t *testing.T) {
	m := NewMock()

	seg, err := m.Synthesize(context.Background(), "Hello world", VoiceProfile{Voice: "nova"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if seg.SampleRate != 22050 {
		t.Errorf("rate = %d, want 22050", seg.SampleRate)
	}
	if len(seg.Samples) != len("Hello world")*441 {
		t.Errorf("samples = %d, want %d", len(seg.Samples), len("Hello world")*441)
	}
}

func TestMockCallTracking(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	_, _ = m.Synthesize(ctx, "one", VoiceProfile{Voice: "nova"})
	_, _ = m.Synthesize(ctx, "two", VoiceProfile{Voice: "onyx"})
	_ = m.Health(ctx)
	_ = m.Close()

	if got := m.CallCount("Synthesize"); got != 2 {
		t.Errorf("Synthesize calls = %d, want 2", got)
	}
	if got := m.CallCount("Health"); got != 1 {
		t.Errorf("Health calls = %d, want 1", got)
	}

	calls := m.Calls()
	if calls[0].Text != "one" || calls[0].Voice != "nova" {
		t.Errorf("first call = %+v", calls[0])
	}

	m.Reset()
	if got := m.CallCount("Synthesize"); got != 0 {
		t.Errorf("calls after reset = %d", got)
	}
}

func TestUnavailable(t *testing.T) {
	m := Unavailable("openai")

	if m.Name() != "openai" {
		t.Errorf("name = %q", m.Name())
	}
	if err := m.Health(context.Background()); !Environment(err) {
		t.Errorf("Health err = %v, want environment kind", err)
	}
	if _, err := m.Synthesize(context.Background(), "x", VoiceProfile{}); !Environment(err) {
		t.Errorf("Synthesize err = %v, want environment kind", err)
	}
}

func TestFlaky(t *testing.T) {
	m := Flaky(NewMock(), func(text string) bool {
		return strings.Contains(text, "bad")
	})

	if _, err := m.Synthesize(context.Background(), "a good line", VoiceProfile{}); err != nil {
		t.Fatalf("good line failed: %v", err)
	}

	_, err := m.Synthesize(context.Background(), "a bad line", VoiceProfile{})
	if err == nil {
		t.Fatal("bad line should fail")
	}
	if Environment(err) {
		t.Error("flaky failure should be line-kind, not environment")
	}
}
