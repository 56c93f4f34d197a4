package synth

import "testing"

func TestResolveElevenLabsVoice(t *testing.T) {
	if got := ResolveElevenLabsVoice("rachel"); got != "21m00Tcm4TlvDq8ikWAM" {
		t.Errorf("rachel = %q", got)
	}
	// Raw IDs pass through unchanged.
	if got := ResolveElevenLabsVoice("abc123xyz"); got != "abc123xyz" {
		t.Errorf("raw id = %q", got)
	}
}

func TestVoiceFor(t *testing.T) {
	tests := []struct {
		name      string
		engine    string
		speaker   string
		overrides map[string]string
		want      string
	}{
		{"openai default speaker 1", "openai", "Speaker 1", nil, VoiceNova},
		{"openai default speaker 2", "openai", "Speaker 2", nil, VoiceOnyx},
		{"elevenlabs default speaker 1", "elevenlabs", "Speaker 1", nil, "rachel"},
		{"override wins", "openai", "Speaker 1", map[string]string{"Speaker 1": "shimmer"}, "shimmer"},
		{"unknown speaker falls back", "openai", "Narrator", nil, VoiceNova},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VoiceFor(tt.engine, tt.speaker, tt.overrides)
			if got.Voice != tt.want {
				t.Errorf("voice = %q, want %q", got.Voice, tt.want)
			}
			if got.Speaker != tt.speaker {
				t.Errorf("speaker = %q, want %q", got.Speaker, tt.speaker)
			}
		})
	}
}
