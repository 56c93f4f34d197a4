package script

import (
	"fmt"
	"regexp"
	"strings"
)

// lineRe matches one dialogue line, tolerating markdown bold markers around
// the speaker label on either side of the colon ("**Speaker 1:** text").
var lineRe = regexp.MustCompile(`^\**\s*(Speaker\s*[12])\s*\**\s*:\s*\**\s*(.+)$`)

// Parse converts raw provider output into ordered script segments.
// Lines that don't match the speaker format are ignored; a reply with no
// matching lines fails with ErrMalformedScript, and a script that never
// gives one of the speakers a line fails with ErrMissingSpeaker.
func Parse(raw string) ([]Segment, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyScript
	}

	var segments []Segment
	seen := map[string]bool{}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		speaker := normalizeSpeaker(m[1])
		text := CleanForTTS(m[2])
		if text == "" {
			continue
		}

		segments = append(segments, Segment{Speaker: speaker, Text: text})
		seen[speaker] = true
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: no speaker lines found", ErrMalformedScript)
	}
	if !seen[SpeakerOne] || !seen[SpeakerTwo] {
		return nil, ErrMissingSpeaker
	}

	return segments, nil
}

// normalizeSpeaker collapses "Speaker1" / "Speaker  1" variants.
func normalizeSpeaker(s string) string {
	if strings.Contains(s, "2") {
		return SpeakerTwo
	}
	return SpeakerOne
}

// CleanForTTS prepares dialogue text for synthesis: collapse stuttered
// punctuation and make sure the line ends with a sentence terminator so
// engines don't clip the final word.
func CleanForTTS(text string) string {
	clean := strings.TrimSpace(text)

	clean = strings.ReplaceAll(clean, "...", ".")
	clean = strings.ReplaceAll(clean, "!!", "!")
	clean = strings.ReplaceAll(clean, "??", "?")

	if clean == "" {
		return clean
	}
	if !strings.HasSuffix(clean, ".") && !strings.HasSuffix(clean, "!") && !strings.HasSuffix(clean, "?") {
		clean += "."
	}

	return clean
}
