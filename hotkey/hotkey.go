// Package hotkey binds global keyboard shortcuts.
package hotkey

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	hook "github.com/robotn/gohook"
)

// Default shortcuts.
var (
	RecordKeys     = []string{"m", "ctrl", "shift"}
	ScreenshotKeys = []string{"s", "ctrl", "shift"}
	ClipboardKeys  = []string{"t", "ctrl", "shift"}
)

// debounce swallows key auto-repeat.
const debounce = 300 * time.Millisecond

// Binding runs Action when all Keys are held.
type Binding struct {
	Name   string
	Keys   []string
	Action func()
}

// Manager owns the global keyboard hook.
type Manager struct {
	bindings []Binding
	now      func() time.Time

	mu      sync.Mutex
	running bool
	last    map[int]time.Time
	done    chan struct{}
}

// NewManager validates bindings and returns a stopped Manager.
func NewManager(bindings ...Binding) (*Manager, error) {
	for _, b := range bindings {
		if len(b.Keys) == 0 || b.Action == nil {
			return nil, errors.New("hotkey: binding needs keys and an action")
		}
	}
	return &Manager{
		bindings: bindings,
		now:      time.Now,
		last:     make(map[int]time.Time),
	}, nil
}

// Start installs the hook and dispatches events in the background.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return errors.New("hotkey: already running")
	}

	for i, b := range m.bindings {
		hook.Register(hook.KeyDown, b.Keys, func(hook.Event) { m.fire(i) })
		slog.Debug("hotkey registered", "name", b.Name, "keys", strings.Join(b.Keys, "+"))
	}

	events := hook.Start()
	m.done = make(chan struct{})
	m.running = true

	go func(done chan struct{}) {
		defer close(done)
		<-hook.Process(events)
	}(m.done)
	return nil
}

// Stop removes the hook. It is safe to call when not running.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	done := m.done
	m.mu.Unlock()

	hook.End()
	<-done
}

// fire runs binding i unless it fired within the debounce window.
func (m *Manager) fire(i int) {
	now := m.now()

	m.mu.Lock()
	if prev, ok := m.last[i]; ok && now.Sub(prev) < debounce {
		m.mu.Unlock()
		return
	}
	m.last[i] = now
	action := m.bindings[i].Action
	m.mu.Unlock()

	action()
}
