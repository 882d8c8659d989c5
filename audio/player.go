package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
)

var (
	// ErrSuspended is returned by Play before the output has been resumed.
	ErrSuspended = errors.New("audio: output suspended")
	// ErrBusy is returned when a playback is already in progress.
	ErrBusy = errors.New("audio: playback in progress")
)

// Output is the device audio output.
type Output interface {
	Suspended() bool
	Resume() error
	Play(ctx context.Context, buf Buffer) error
}

// Player plays buffers on the default output device.
// It starts suspended; Resume opens the audio backend. Each Play acquires
// a playback device and releases it when the buffer drains or ctx ends.
type Player struct {
	mu      sync.Mutex
	backend *malgo.AllocatedContext
	playing bool
}

// NewPlayer returns a suspended player.
func NewPlayer() *Player {
	return &Player{}
}

// Suspended reports whether Resume is required before playback.
func (p *Player) Suspended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.backend == nil
}

// Resume opens the audio backend. Resuming an active player is a no-op.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.backend != nil {
		return nil
	}
	backend, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}
	p.backend = backend
	return nil
}

// Play blocks until buf has been played or ctx is done.
func (p *Player) Play(ctx context.Context, buf Buffer) error {
	p.mu.Lock()
	if p.backend == nil {
		p.mu.Unlock()
		return ErrSuspended
	}
	if p.playing {
		p.mu.Unlock()
		return ErrBusy
	}
	p.playing = true
	backend := p.backend
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.playing = false
		p.mu.Unlock()
	}()

	if len(buf.Samples) == 0 {
		return nil
	}
	channels := max(buf.Channels, 1)

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatF32
	cfg.Playback.Channels = uint32(channels)
	cfg.SampleRate = uint32(buf.SampleRate)

	f := &feeder{samples: buf.Samples, channels: channels}
	var (
		once sync.Once
		tail time.Duration
		done = make(chan struct{})
	)
	onData := func(out, _ []byte, frames uint32) {
		if f.fill(out, frames) {
			once.Do(func() {
				tail = time.Duration(frames) * time.Second / time.Duration(max(buf.SampleRate, 1))
				close(done)
			})
		}
	}

	device, err := malgo.InitDevice(backend.Context, cfg, malgo.DeviceCallbacks{Data: onData})
	if err != nil {
		return fmt.Errorf("init playback device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("start playback: %w", err)
	}
	defer func() { _ = device.Stop() }()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	// The device still holds the last period.
	timer := time.NewTimer(tail)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// feeder copies interleaved samples into device periods.
type feeder struct {
	samples  []float32
	channels int
	pos      int
}

// fill writes the next period to out, padding with silence, and reports
// whether the last sample had already been handed over before this call.
func (f *feeder) fill(out []byte, frames uint32) bool {
	drained := f.pos >= len(f.samples)
	n := int(frames) * f.channels
	for i := 0; i < n; i++ {
		var s float32
		if f.pos < len(f.samples) {
			s = f.samples[f.pos]
			f.pos++
		}
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}
	return drained
}

// Close releases the audio backend. The player is suspended afterwards.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.backend == nil {
		return nil
	}
	err := p.backend.Uninit()
	p.backend.Free()
	p.backend = nil
	return err
}
