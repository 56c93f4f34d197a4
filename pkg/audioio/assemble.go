package audioio

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Default assembly parameters. The turn gap matches natural podcast pacing;
// speaker changes get a slightly longer pause.
const (
	DefaultOutputRate = 22050
	DefaultTurnGap    = 300 * time.Millisecond
	DefaultSpeakerGap = 450 * time.Millisecond
)

// ErrNoSegments is returned when assembly is attempted with no input.
var ErrNoSegments = errors.New("audioio: no segments to assemble")

// FormatError reports a segment whose audio format cannot be normalized.
type FormatError struct {
	Index  int
	Reason string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("audioio: segment %d: %s", e.Index, e.Reason)
}

// Segment is one synthesized line of dialogue ready for assembly.
type Segment struct {
	// Speaker identifies the voice, used to size inter-segment gaps.
	Speaker string

	// Samples are PCM16 mono samples.
	Samples []int16

	// SampleRate in Hz of Samples.
	SampleRate int
}

// Duration returns the playback duration of the segment.
func (s Segment) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(s.Samples)) * time.Second / time.Duration(s.SampleRate)
}

// Assembler concatenates dialogue segments into a single WAV track.
// Segments are resampled to OutputRate before concatenation, so engines
// with different native rates can feed the same track. Output is
// deterministic for identical inputs.
type Assembler struct {
	// OutputRate is the sample rate of the assembled track.
	OutputRate int

	// TurnGap is the silence inserted between consecutive segments.
	TurnGap time.Duration

	// SpeakerGap replaces TurnGap when the speaker changes.
	SpeakerGap time.Duration

	logger *slog.Logger
}

// NewAssembler creates an assembler with default pacing.
func NewAssembler() *Assembler {
	return &Assembler{
		OutputRate: DefaultOutputRate,
		TurnGap:    DefaultTurnGap,
		SpeakerGap: DefaultSpeakerGap,
		logger:     slog.Default().With("component", "audioio.assembler"),
	}
}

// Assemble concatenates segments in order into a single WAV file.
// Returns ErrNoSegments for empty input and a FormatError for segments
// that cannot be normalized to the output rate.
func (a *Assembler) Assemble(segments []Segment) ([]byte, error) {
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}

	for i, seg := range segments {
		if seg.SampleRate <= 0 {
			return nil, &FormatError{Index: i, Reason: "invalid sample rate"}
		}
		if len(seg.Samples) == 0 {
			return nil, &FormatError{Index: i, Reason: "empty audio"}
		}
	}

	turnGap := a.gapSamples(a.TurnGap)
	speakerGap := a.gapSamples(a.SpeakerGap)

	var combined []int16
	for i, seg := range segments {
		if i > 0 {
			if seg.Speaker != segments[i-1].Speaker {
				combined = append(combined, Silence(speakerGap)...)
			} else {
				combined = append(combined, Silence(turnGap)...)
			}
		}
		combined = append(combined, Resample(seg.Samples, seg.SampleRate, a.OutputRate)...)
	}

	a.logger.Debug("assembled track",
		"segments", len(segments),
		"samples", len(combined),
		"rate", a.OutputRate,
	)

	return EncodeWAV(combined, a.OutputRate), nil
}

// EncodeSegment wraps a single segment as a standalone WAV file at the
// segment's native rate.
func (a *Assembler) EncodeSegment(seg Segment) ([]byte, error) {
	if seg.SampleRate <= 0 {
		return nil, &FormatError{Index: 0, Reason: "invalid sample rate"}
	}
	return EncodeWAV(seg.Samples, seg.SampleRate), nil
}

func (a *Assembler) gapSamples(d time.Duration) int {
	return int(time.Duration(a.OutputRate) * d / time.Second)
}
