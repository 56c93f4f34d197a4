package podcast

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CombinedFileName is the assembled track's file name, kept from the
// original output layout so existing tooling finds it.
const CombinedFileName = "complete_podcast.wav"

// ArtifactStore persists generated audio files under one directory per
// job. Artifacts are written once and never mutated, so every read of an
// unchanged ref is byte-identical.
type ArtifactStore struct {
	root string
}

// NewArtifactStore creates a file-backed artifact store rooted at root.
func NewArtifactStore(root string) (*ArtifactStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("artifact root: %w", err)
	}
	return &ArtifactStore{root: root}, nil
}

// SegmentFileName names the WAV for one script segment, e.g.
// "segment_001_speaker_1.wav".
func SegmentFileName(index int, speaker string) string {
	s := strings.ToLower(strings.ReplaceAll(speaker, " ", "_"))
	return fmt.Sprintf("segment_%03d_%s.wav", index+1, s)
}

// Save writes one artifact and returns its ref ("<jobID>/<name>").
func (a *ArtifactStore) Save(jobID, name string, data []byte) (string, error) {
	dir := filepath.Join(a.root, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("artifact dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return jobID + "/" + name, nil
}

// Read returns the bytes for a previously saved ref, or ErrArtifactNotFound.
func (a *ArtifactStore) Read(ref string) ([]byte, error) {
	jobID, name, ok := splitRef(ref)
	if !ok {
		return nil, ErrArtifactNotFound
	}
	data, err := os.ReadFile(filepath.Join(a.root, jobID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return data, nil
}

// splitRef validates a "<jobID>/<name>" ref without allowing traversal.
func splitRef(ref string) (jobID, name string, ok bool) {
	parts := strings.Split(ref, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	if parts[0] != filepath.Base(parts[0]) || parts[1] != filepath.Base(parts[1]) {
		return "", "", false
	}
	return parts[0], parts[1], true
}
