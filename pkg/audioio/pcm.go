// Package audioio provides PCM16 audio helpers for podcast assembly:
// byte/sample conversion, sample-rate conversion, WAV encoding, and
// concatenation of synthesized dialogue segments into a single track.
package audioio

// BytesToSamples converts raw PCM16 little-endian bytes to int16 samples.
func BytesToSamples(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return samples
}

// SamplesToBytes converts int16 samples to raw PCM16 little-endian bytes.
func SamplesToBytes(samples []int16) []byte {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		data[i*2] = byte(s)
		data[i*2+1] = byte(s >> 8)
	}
	return data
}

// Resample converts audio from one sample rate to another using linear interpolation.
// This is a simple resampler suitable for speech audio.
// For higher quality, consider using a polyphase filter.
func Resample(samples []int16, fromRate, toRate int) []int16 {
	if fromRate == toRate {
		return samples
	}

	if len(samples) == 0 {
		return samples
	}

	ratio := float64(fromRate) / float64(toRate)
	// Integer math so a whole second stays a whole second.
	newLen := len(samples) * toRate / fromRate

	if newLen == 0 {
		return []int16{}
	}

	result := make([]int16, newLen)

	for i := 0; i < newLen; i++ {
		srcPos := float64(i) * ratio
		srcIdx := int(srcPos)
		frac := srcPos - float64(srcIdx)

		if srcIdx >= len(samples)-1 {
			result[i] = samples[len(samples)-1]
		} else {
			// Linear interpolation
			s1 := float64(samples[srcIdx])
			s2 := float64(samples[srcIdx+1])
			result[i] = int16(s1 + frac*(s2-s1))
		}
	}

	return result
}

// Silence returns count samples of digital silence.
func Silence(count int) []int16 {
	return make([]int16, count)
}
