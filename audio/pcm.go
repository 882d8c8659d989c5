// Package audio converts between the service's audio payloads and
// playable or transmittable forms.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// Synthesized speech is linear PCM, 16-bit little endian, mono, 24 kHz.
const (
	SpeechSampleRate = 24000
	SpeechChannels   = 1
)

// ErrOddLength is returned when a 16-bit PCM payload has a trailing byte.
var ErrOddLength = errors.New("audio: odd pcm byte length")

// Buffer is a decoded waveform with samples in [-1, 1].
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// Duration returns the playback length of b.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate == 0 || b.Channels == 0 {
		return 0
	}
	frames := len(b.Samples) / b.Channels
	return time.Duration(frames) * time.Second / time.Duration(b.SampleRate)
}

// DecodePCM16 decodes raw speech PCM into a mono 24 kHz buffer.
// Each sample is divided by 32768.
func DecodePCM16(data []byte) (Buffer, error) {
	if len(data)%2 != 0 {
		return Buffer{}, ErrOddLength
	}

	samples := make([]float32, len(data)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(v) / 32768
	}
	return Buffer{SampleRate: SpeechSampleRate, Channels: SpeechChannels, Samples: samples}, nil
}

// DecodeBase64PCM16 decodes a base64 speech payload.
func DecodeBase64PCM16(s string) (Buffer, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Buffer{}, fmt.Errorf("decode base64: %w", err)
	}
	return DecodePCM16(data)
}
