package audioio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// WAV container constants for 16-bit mono PCM.
const (
	wavHeaderSize = 44
	wavFormatPCM  = 1
	wavBitDepth   = 16
)

// Sentinel errors for WAV decoding.
var (
	ErrNotWAV         = errors.New("audioio: not a RIFF/WAVE file")
	ErrUnsupportedWAV = errors.New("audioio: unsupported WAV encoding")
)

// EncodeWAV wraps PCM16 mono samples in a minimal RIFF/WAVE container.
// Output is deterministic for identical inputs.
func EncodeWAV(samples []int16, sampleRate int) []byte {
	dataLen := len(samples) * 2
	buf := make([]byte, wavHeaderSize+dataLen)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(buf[20:22], wavFormatPCM)
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*2)) // byte rate
	binary.LittleEndian.PutUint16(buf[32:34], 2)                    // block align
	binary.LittleEndian.PutUint16(buf[34:36], wavBitDepth)

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))
	copy(buf[wavHeaderSize:], SamplesToBytes(samples))

	return buf
}

// DecodeWAV extracts PCM16 mono samples and the sample rate from a WAV file.
// Only 16-bit mono PCM is supported; anything else returns ErrUnsupportedWAV.
func DecodeWAV(data []byte) ([]int16, int, error) {
	if len(data) < wavHeaderSize {
		return nil, 0, ErrNotWAV
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, ErrNotWAV
	}

	format := binary.LittleEndian.Uint16(data[20:22])
	channels := binary.LittleEndian.Uint16(data[22:24])
	sampleRate := int(binary.LittleEndian.Uint32(data[24:28]))
	bitDepth := binary.LittleEndian.Uint16(data[34:36])

	if format != wavFormatPCM || channels != 1 || bitDepth != wavBitDepth {
		return nil, 0, fmt.Errorf("%w: format=%d channels=%d bits=%d",
			ErrUnsupportedWAV, format, channels, bitDepth)
	}

	dataLen := int(binary.LittleEndian.Uint32(data[40:44]))
	if wavHeaderSize+dataLen > len(data) {
		dataLen = len(data) - wavHeaderSize
	}

	return BytesToSamples(data[wavHeaderSize : wavHeaderSize+dataLen]), sampleRate, nil
}
