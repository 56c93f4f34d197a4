package podcast

import (
	"bytes"
	"errors"
	"testing"
)

func TestSegmentFileName(t *testing.T) {
	tests := []struct {
		index   int
		speaker string
		want    string
	}{
		{0, "Speaker 1", "segment_001_speaker_1.wav"},
		{1, "Speaker 2", "segment_002_speaker_2.wav"},
		{11, "Speaker 1", "segment_012_speaker_1.wav"},
	}

	for _, tt := range tests {
		if got := SegmentFileName(tt.index, tt.speaker); got != tt.want {
			t.Errorf("SegmentFileName(%d, %q) = %q, want %q", tt.index, tt.speaker, got, tt.want)
		}
	}
}

func TestArtifactStoreSaveRead(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewArtifactStore: %v", err)
	}

	data := []byte("RIFF-ish bytes")
	ref, err := store.Save("job-1", "complete_podcast.wav", data)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ref != "job-1/complete_podcast.wav" {
		t.Errorf("ref = %q", ref)
	}

	got, err := store.Read(ref)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("read bytes differ from saved bytes")
	}
}

func TestArtifactStoreReadErrors(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewArtifactStore: %v", err)
	}

	tests := []struct {
		name string
		ref  string
	}{
		{"unknown ref", "job-x/missing.wav"},
		{"no slash", "justaname.wav"},
		{"empty parts", "/x.wav"},
		{"traversal", "../secrets/x.wav"},
		{"nested traversal", "job-1/../../x.wav"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Read(tt.ref); !errors.Is(err, ErrArtifactNotFound) {
				t.Errorf("Read(%q) err = %v, want ErrArtifactNotFound", tt.ref, err)
			}
		})
	}
}
