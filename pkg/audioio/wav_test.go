package audioio

import (
	"bytes"
	"errors"
	"testing"
)

func TestWAVRoundtrip(t *testing.T) {
	samples := []int16{0, 100, -100, 32767, -32768}

	data := EncodeWAV(samples, 22050)
	if len(data) != wavHeaderSize+len(samples)*2 {
		t.Fatalf("encoded length = %d, want %d", len(data), wavHeaderSize+len(samples)*2)
	}

	got, rate, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if rate != 22050 {
		t.Errorf("rate = %d, want 22050", rate)
	}
	if len(got) != len(samples) {
		t.Fatalf("samples = %d, want %d", len(got), len(samples))
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], samples[i])
		}
	}
}

func TestEncodeWAVDeterministic(t *testing.T) {
	samples := make([]int16, 2205)
	for i := range samples {
		samples[i] = int16(i)
	}

	a := EncodeWAV(samples, 22050)
	b := EncodeWAV(samples, 22050)
	if !bytes.Equal(a, b) {
		t.Fatal("identical input produced different WAV bytes")
	}
}

func TestDecodeWAVErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"too short", []byte("RIFF"), ErrNotWAV},
		{"wrong magic", make([]byte, 64), ErrNotWAV},
		{"stereo rejected", encodeStereoHeader(), ErrUnsupportedWAV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeWAV(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

// encodeStereoHeader builds a valid RIFF header claiming 2 channels.
func encodeStereoHeader() []byte {
	data := EncodeWAV([]int16{0, 0}, 22050)
	data[22] = 2
	return data
}
