// Package synth voice presets for ElevenLabs.
package synth

// ElevenLabsVoices maps friendly preset names to ElevenLabs voice IDs.
// Use ResolveElevenLabsVoice to look up a voice by name or pass through raw IDs.
var ElevenLabsVoices = map[string]string{
	"charlotte": "XB0fDUnXU5powFXDhCwa", // British female, warm
	"aria":      "9BWtsMINqrJLrRacOk9x", // American female, expressive
	"sarah":     "EXAVITQu4vr4xnSDxMaL", // American female, soft
	"rachel":    "21m00Tcm4TlvDq8ikWAM", // American female, calm
	"josh":      "TxGEqnHWrfWFTfGW9XjX", // American male, deep
	"adam":      "pNInz6obpgDQGcFmaJgB", // American male, deep
	"sam":       "yoZ06aMxZJJ28mfd3POQ", // American male, raspy
}

// ResolveElevenLabsVoice returns the voice ID for a preset name,
// or the input unchanged if it's already a voice ID.
func ResolveElevenLabsVoice(name string) string {
	if id, ok := ElevenLabsVoices[name]; ok {
		return id
	}
	return name // Assume it's already a voice ID
}

// DefaultVoices maps the two script speakers to engine-specific voices.
// Keys are engine names, values map speaker id to voice.
var DefaultVoices = map[string]map[string]string{
	engineOpenAI: {
		"Speaker 1": VoiceNova,
		"Speaker 2": VoiceOnyx,
	},
	engineElevenLabs: {
		"Speaker 1": "rachel",
		"Speaker 2": "josh",
	},
}

// VoiceFor resolves the voice profile for a speaker on a given engine.
// Unknown speakers fall back to the engine's "Speaker 1" voice so a
// malformed speaker label degrades to a usable voice rather than an error.
func VoiceFor(engine, speaker string, overrides map[string]string) VoiceProfile {
	if v, ok := overrides[speaker]; ok {
		return VoiceProfile{Speaker: speaker, Voice: v}
	}
	voices := DefaultVoices[engine]
	if v, ok := voices[speaker]; ok {
		return VoiceProfile{Speaker: speaker, Voice: v}
	}
	return VoiceProfile{Speaker: speaker, Voice: voices["Speaker 1"]}
}
