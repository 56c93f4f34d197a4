package script

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []Segment
		wantErr error
	}{
		{
			name: "plain dialogue",
			raw:  "Speaker 1: Hello there.\nSpeaker 2: Hi, good to be here.",
			want: []Segment{
				{Speaker: SpeakerOne, Text: "Hello there."},
				{Speaker: SpeakerTwo, Text: "Hi, good to be here."},
			},
		},
		{
			name: "markdown bold labels",
			raw:  "**Speaker 1:** Welcome back.\n**Speaker 2**: Thanks!",
			want: []Segment{
				{Speaker: SpeakerOne, Text: "Welcome back."},
				{Speaker: SpeakerTwo, Text: "Thanks!"},
			},
		},
		{
			name: "no space in speaker label",
			raw:  "Speaker1: First line.\nSpeaker2: Second line.",
			want: []Segment{
				{Speaker: SpeakerOne, Text: "First line."},
				{Speaker: SpeakerTwo, Text: "Second line."},
			},
		},
		{
			name: "prose between lines is ignored",
			raw:  "Here is your podcast script:\n\nSpeaker 1: Let's begin.\n---\nSpeaker 2: Absolutely.",
			want: []Segment{
				{Speaker: SpeakerOne, Text: "Let's begin."},
				{Speaker: SpeakerTwo, Text: "Absolutely."},
			},
		},
		{
			name:    "empty reply",
			raw:     "   \n  ",
			wantErr: ErrEmptyScript,
		},
		{
			name:    "no speaker lines",
			raw:     "This document discusses several interesting topics.",
			wantErr: ErrMalformedScript,
		},
		{
			name:    "only one speaker",
			raw:     "Speaker 1: A monologue.\nSpeaker 1: Still talking.",
			wantErr: ErrMissingSpeaker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("segments = %d, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCleanForTTS(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello there", "Hello there."},
		{"Already done.", "Already done."},
		{"Really?", "Really?"},
		{"Wow!", "Wow!"},
		{"Well... maybe", "Well. maybe."},
		{"No way!!", "No way!"},
		{"What??", "What?"},
		{"  padded  ", "padded."},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanForTTS(tt.in); got != tt.want {
				t.Errorf("CleanForTTS(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLineTarget(t *testing.T) {
	tests := []struct {
		length Length
		want   int
	}{
		{Length5Min, 12},
		{Length10Min, 22},
		{Length15Min, 32},
		{Length("unknown"), 22},
	}

	for _, tt := range tests {
		if got := LineTarget(tt.length); got != tt.want {
			t.Errorf("LineTarget(%q) = %d, want %d", tt.length, got, tt.want)
		}
	}
}

func TestValidStyleAndLength(t *testing.T) {
	for _, s := range []Style{StyleConversational, StyleInterview, StyleEducational, StyleDebate} {
		if !ValidStyle(s) {
			t.Errorf("ValidStyle(%q) = false", s)
		}
	}
	if ValidStyle("Dramatic") {
		t.Error("ValidStyle accepted unknown style")
	}

	for _, l := range []Length{Length5Min, Length10Min, Length15Min} {
		if !ValidLength(l) {
			t.Errorf("ValidLength(%q) = false", l)
		}
	}
	if ValidLength("2 hours") {
		t.Error("ValidLength accepted unknown bucket")
	}
}
