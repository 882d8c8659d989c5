package audiocapture

import (
	"sync"
	"time"
)

// MaxRecording bounds a single recording; older samples beyond it are dropped.
const MaxRecording = 2 * time.Minute

// Recording accumulates samples for one capture session.
// Append is called from the audio thread; the other methods from callers.
type Recording struct {
	mu         sync.Mutex
	samples    []float32
	sampleRate int
	limit      int
	started    time.Time
}

// NewRecording creates an empty recording at sampleRate.
func NewRecording(sampleRate int) *Recording {
	return &Recording{
		samples:    make([]float32, 0, sampleRate*5),
		sampleRate: sampleRate,
		limit:      int(MaxRecording.Seconds()) * sampleRate,
		started:    time.Now(),
	}
}

// Append adds samples, copying them.
func (r *Recording) Append(samples []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.samples = append(r.samples, samples...)
	if over := len(r.samples) - r.limit; over > 0 {
		copy(r.samples, r.samples[over:])
		r.samples = r.samples[:r.limit]
	}
}

// Extract returns all buffered samples and empties the recording.
func (r *Recording) Extract() []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.samples) == 0 {
		return nil
	}
	out := make([]float32, len(r.samples))
	copy(out, r.samples)
	r.samples = r.samples[:0]
	return out
}

// Len returns the number of buffered samples.
func (r *Recording) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

// Duration returns the length of buffered audio.
func (r *Recording) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sampleRate == 0 {
		return 0
	}
	return time.Duration(len(r.samples)) * time.Second / time.Duration(r.sampleRate)
}

// SampleRate returns the rate samples were captured at.
func (r *Recording) SampleRate() int { return r.sampleRate }

// Elapsed returns the wall time since the recording was created.
func (r *Recording) Elapsed() time.Duration { return time.Since(r.started) }
