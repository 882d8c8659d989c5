// Package audiocapture records the default microphone.
package audiocapture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
)

// DefaultSampleRate suits Opus encoding without resampling.
const DefaultSampleRate = 48000

var (
	// ErrRunning is returned when Start is called on a running capturer.
	ErrRunning = errors.New("audiocapture: already running")
	// ErrPermissionDenied is returned when the microphone cannot be opened.
	ErrPermissionDenied = errors.New("audiocapture: microphone unavailable")
)

// AudioHandler receives mono float32 samples in [-1, 1].
// The slice is only valid for the duration of the call.
type AudioHandler func(samples []float32)

// Capturer streams microphone audio to a handler.
type Capturer interface {
	Start(handler AudioHandler) error
	Stop() error
	SampleRate() int
}

// capturer owns the audio backend and capture device between Start and Stop.
type capturer struct {
	sampleRate int

	mu      sync.Mutex
	backend *malgo.AllocatedContext
	device  *malgo.Device
}

// New creates a microphone Capturer. No device is opened until Start.
func New(sampleRate int) (Capturer, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &capturer{sampleRate: sampleRate}, nil
}

func (c *capturer) SampleRate() int { return c.sampleRate }

func (c *capturer) Start(handler AudioHandler) error {
	if handler == nil {
		return errors.New("audiocapture: nil handler")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device != nil {
		return ErrRunning
	}

	backend, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("%w: init context: %v", ErrPermissionDenied, err)
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatF32
	cfg.Capture.Channels = 1
	cfg.SampleRate = uint32(c.sampleRate)

	var scratch []float32
	onData := func(_, in []byte, frames uint32) {
		n := int(frames)
		if len(in) < n*4 {
			n = len(in) / 4
		}
		if cap(scratch) < n {
			scratch = make([]float32, n)
		}
		scratch = scratch[:n]
		for i := range scratch {
			scratch[i] = math.Float32frombits(binary.LittleEndian.Uint32(in[i*4:]))
		}
		handler(scratch)
	}

	device, err := malgo.InitDevice(backend.Context, cfg, malgo.DeviceCallbacks{Data: onData})
	if err != nil {
		freeBackend(backend)
		return fmt.Errorf("%w: init device: %v", ErrPermissionDenied, err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		freeBackend(backend)
		return fmt.Errorf("%w: start device: %v", ErrPermissionDenied, err)
	}

	c.backend = backend
	c.device = device
	return nil
}

// Stop releases the device. It is safe to call when not running.
func (c *capturer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device == nil {
		return nil
	}

	err := c.device.Stop()
	c.device.Uninit()
	freeBackend(c.backend)
	c.device = nil
	c.backend = nil
	return err
}

func freeBackend(b *malgo.AllocatedContext) {
	_ = b.Uninit()
	b.Free()
}
