package audio

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/at-wat/ebml-go/webm"
	opuscodec "github.com/jj11hh/opus"
)

// WebMMIMEType labels payloads produced by EncodeWebM.
const WebMMIMEType = "audio/webm"

const (
	frameDuration  = 20 // ms
	maxOpusPacket  = 1275
	opusTrackUID   = 0x5643
	trackTypeAudio = 2
)

var errEmptyAudio = errors.New("audio: no samples")

// nopCloser lets the block writer finish into an in-memory buffer.
type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

// EncodeWebM encodes mono float32 samples as Opus in a WebM container.
// sampleRate must be one Opus accepts (8, 12, 16, 24 or 48 kHz).
func EncodeWebM(samples []float32, sampleRate int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, errEmptyAudio
	}

	enc, err := opuscodec.NewEncoder(sampleRate, 1, opuscodec.AppVoIP)
	if err != nil {
		return nil, fmt.Errorf("create opus encoder: %w", err)
	}

	var buf bytes.Buffer
	writers, err := webm.NewSimpleBlockWriter(nopCloser{&buf}, []webm.TrackEntry{{
		Name:            "Audio",
		TrackNumber:     1,
		TrackUID:        opusTrackUID,
		CodecID:         "A_OPUS",
		TrackType:       trackTypeAudio,
		DefaultDuration: frameDuration * 1000000,
		Audio: &webm.Audio{
			SamplingFrequency: float64(sampleRate),
			Channels:          1,
		},
	}})
	if err != nil {
		return nil, fmt.Errorf("create webm writer: %w", err)
	}
	w := writers[0]

	frameSize := sampleRate * frameDuration / 1000
	frame := make([]float32, frameSize)
	packet := make([]byte, maxOpusPacket)

	for off, ts := 0, int64(0); off < len(samples); off, ts = off+frameSize, ts+frameDuration {
		n := copy(frame, samples[off:])
		clear(frame[n:])

		size, err := enc.EncodeFloat32(frame, packet)
		if err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("opus encode: %w", err)
		}
		// The muxer keeps the slice until it is marshalled.
		if _, err := w.Write(true, ts, bytes.Clone(packet[:size])); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("write block: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close webm writer: %w", err)
	}
	return buf.Bytes(), nil
}
