package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.aimuz.me/viajero/audio"
	"go.aimuz.me/viajero/audiocapture"
)

// Recorder captures one voice clip at a time.
type Recorder interface {
	// Start acquires the microphone and begins buffering.
	Start() error
	// Stop releases the microphone and returns the encoded clip.
	Stop() (data []byte, mimeType string, err error)
	// Cancel releases the microphone and drops the clip.
	Cancel()
}

var errNotRecording = errors.New("not recording")

// MicRecorder records the default microphone into a WebM/Opus clip.
// The capture device is released on every exit path.
type MicRecorder struct {
	mu          sync.Mutex
	newCapturer func(sampleRate int) (audiocapture.Capturer, error)
	capture     audiocapture.Capturer
	recording   *audiocapture.Recording
}

// NewMicRecorder creates an idle recorder.
func NewMicRecorder() *MicRecorder {
	return &MicRecorder{newCapturer: audiocapture.New}
}

// Start opens the microphone.
func (m *MicRecorder) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.capture != nil {
		return audiocapture.ErrRunning
	}

	c, err := m.newCapturer(audiocapture.DefaultSampleRate)
	if err != nil {
		return fmt.Errorf("create audio capture: %w", err)
	}

	rec := audiocapture.NewRecording(c.SampleRate())
	if err := c.Start(rec.Append); err != nil {
		return fmt.Errorf("start audio capture: %w", err)
	}

	m.capture = c
	m.recording = rec
	slog.Info("recording started", "sample_rate", c.SampleRate())
	return nil
}

// Stop closes the microphone and encodes what was captured.
// An empty clip is returned as nil data without error.
func (m *MicRecorder) Stop() ([]byte, string, error) {
	samples, rate, err := m.release()
	if err != nil {
		return nil, "", err
	}
	if len(samples) == 0 {
		return nil, audio.WebMMIMEType, nil
	}

	data, err := audio.EncodeWebM(samples, rate)
	if err != nil {
		return nil, "", fmt.Errorf("encode recording: %w", err)
	}
	return data, audio.WebMMIMEType, nil
}

// Cancel closes the microphone and discards the clip.
func (m *MicRecorder) Cancel() {
	if _, _, err := m.release(); err != nil && !errors.Is(err, errNotRecording) {
		slog.Warn("cancel recording", "error", err)
	}
}

// release stops the device and takes the buffered samples.
func (m *MicRecorder) release() ([]float32, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.capture == nil {
		return nil, 0, errNotRecording
	}

	err := m.capture.Stop()
	samples := m.recording.Extract()
	rate := m.recording.SampleRate()
	elapsed := m.recording.Elapsed()
	m.capture = nil
	m.recording = nil

	slog.Info("recording stopped", "samples", len(samples), "elapsed", elapsed)
	if err != nil {
		return nil, 0, fmt.Errorf("stop audio capture: %w", err)
	}
	return samples, rate, nil
}
