// Package script generates multi-speaker podcast dialogue from a source
// document.
//
// The package abstracts script generation behind a single Generator
// interface. The production implementation calls an OpenAI-compatible
// chat-completions API and parses the reply into alternating speaker lines;
// the mock drives pipeline tests without a provider.
//
// Example usage:
//
//	gen, _ := script.NewChatGenerator(
//	    script.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	    script.WithModel("gpt-4o-mini"),
//	)
//	segments, _ := gen.Generate(ctx, script.Request{
//	    Title:   "AI Overview",
//	    Content: doc,
//	    Style:   script.StyleConversational,
//	    Length:  script.Length10Min,
//	})
package script

import "context"

// The two fixed podcast speakers. Scripts alternate between them.
const (
	SpeakerOne = "Speaker 1"
	SpeakerTwo = "Speaker 2"
)

// Style shapes the tone of the generated dialogue. Style affects tone
// instructions only, never the structural contract.
type Style string

// Supported dialogue styles.
const (
	StyleConversational Style = "Conversational"
	StyleInterview      Style = "Interview"
	StyleEducational    Style = "Educational"
	StyleDebate         Style = "Debate"
)

// Length is a duration bucket for the requested podcast.
type Length string

// Supported duration buckets and their approximate line targets.
const (
	Length5Min  Length = "5 minutes"
	Length10Min Length = "10 minutes"
	Length15Min Length = "15 minutes"
)

// lineTargets maps each duration bucket to an approximate dialogue line count.
var lineTargets = map[Length]int{
	Length5Min:  12,
	Length10Min: 22,
	Length15Min: 32,
}

// LineTarget returns the approximate line count for a duration bucket.
// Unknown buckets get the 10-minute target.
func LineTarget(l Length) int {
	if n, ok := lineTargets[l]; ok {
		return n
	}
	return lineTargets[Length10Min]
}

// ValidStyle reports whether s is a supported style.
func ValidStyle(s Style) bool {
	switch s {
	case StyleConversational, StyleInterview, StyleEducational, StyleDebate:
		return true
	}
	return false
}

// ValidLength reports whether l is a supported duration bucket.
func ValidLength(l Length) bool {
	_, ok := lineTargets[l]
	return ok
}

// Segment is one speaker's line of dialogue, in playback order.
type Segment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Request carries the source document and generation parameters.
type Request struct {
	// Title names the source document for the prompt.
	Title string

	// Content is the full document text.
	Content string

	// Style shapes the dialogue tone.
	Style Style

	// Length is the requested duration bucket.
	Length Length
}

// Generator produces an ordered dialogue script from a document.
type Generator interface {
	// Generate returns the ordered script segments. Provider errors,
	// unparseable output, and scripts missing either speaker all fail
	// with a *GenerationError.
	Generate(ctx context.Context, req Request) ([]Segment, error)
}
