// Package app provides the core application service for Wails bindings.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wailsapp/wails/v3/pkg/application"

	"go.aimuz.me/viajero/audio"
	"go.aimuz.me/viajero/clipboard"
	"go.aimuz.me/viajero/gateway"
	"go.aimuz.me/viajero/geo"
	"go.aimuz.me/viajero/hotkey"
	"go.aimuz.me/viajero/internal/types"
	"go.aimuz.me/viajero/internal/workers"
	"go.aimuz.me/viajero/langdetect"
	"go.aimuz.me/viajero/localization"
	"go.aimuz.me/viajero/screenshot"
	"go.aimuz.me/viajero/themes"
)

// ErrNoDestination is returned by view actions on the selector screen.
var ErrNoDestination = errors.New("no destination selected")

// Gateway is the subset of *gateway.Gateway the controllers use.
type Gateway interface {
	Recommend(ctx context.Context, q gateway.Query, dest types.Destination) types.Result[[]types.Place]
	Translate(ctx context.Context, text, from, to string) types.Result[types.TranslationResult]
	TranslateAudio(ctx context.Context, audio []byte, mimeType, from, to string) types.Result[types.TranslationResult]
	Speak(ctx context.Context, text string) types.Result[[]byte]
	Challenge(ctx context.Context, dest types.Destination, level int) types.Result[types.LanguageChallenge]
	AnalyzeImage(ctx context.Context, image []byte, mimeType string, dest types.Destination) types.Result[string]
}

// Messages resolves localized user-facing strings.
type Messages interface {
	Translate(id string) string
}

// Deps are the collaborators of a Service. Gateway, Runner and Messages are
// required; the rest default to the platform implementations.
type Deps struct {
	Gateway  Gateway
	Runner   workers.Runner
	Messages Messages

	Locator  geo.Locator
	Output   audio.Output
	Recorder Recorder

	LevelUpDelay time.Duration
	Hotkeys      bool

	// Emit overrides app.Event.Emit.
	Emit func(name string, data any)
	// After schedules f once after d.
	After func(d time.Duration, f func())
	// Detect guesses the language of typed text.
	Detect func(text string) (code, name string)
	// Screenshot captures a screen region as PNG.
	Screenshot func(ctx context.Context) ([]byte, error)
	// Clipboard reads the clipboard text.
	Clipboard func() (string, error)
}

// Service provides application functionality bound to Wails.
// It owns the shell state; each destination session owns its controllers.
type Service struct {
	deps    Deps
	version string
	env     *env

	// UI references - set via Init
	app    *application.App
	window application.Window
	hotkey *hotkey.Manager

	mu      sync.Mutex
	session *session
}

// session is everything that lives between SelectDestination and Back.
type session struct {
	id     string
	theme  themes.Theme
	view   types.View
	ctx    context.Context
	cancel context.CancelFunc

	explorer   *Explorer
	learning   *Learning
	translator *Translator
	images     requestSeq
}

// New creates a Service. Call Init() after Wails app is created.
func New(version string, deps Deps) *Service {
	s := &Service{version: version, deps: deps}
	if s.deps.Locator == nil {
		s.deps.Locator = geo.Disabled{}
	}
	if s.deps.Recorder == nil {
		s.deps.Recorder = NewMicRecorder()
	}
	if s.deps.Output == nil {
		s.deps.Output = audio.NewPlayer()
	}
	if s.deps.After == nil {
		s.deps.After = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	if s.deps.Detect == nil {
		s.deps.Detect = langdetect.Detect
	}
	if s.deps.Screenshot == nil {
		s.deps.Screenshot = screenshot.Capture
	}
	if s.deps.Clipboard == nil {
		s.deps.Clipboard = func() (string, error) { return clipboard.GetText(s.app) }
	}

	s.env = &env{
		gw:       s.deps.Gateway,
		run:      s.deps.Runner,
		msgs:     s.deps.Messages,
		emit:     s.emit,
		after:    s.deps.After,
		delay:    s.deps.LevelUpDelay,
		locator:  s.deps.Locator,
		output:   s.deps.Output,
		recorder: s.deps.Recorder,
		detect:   s.deps.Detect,
	}
	return s
}

// GetVersion returns the application version.
func (s *Service) GetVersion() string {
	return s.version
}

// Init stores the app and window references and installs the hotkeys.
// Must be called after Wails application is created.
func (s *Service) Init(app *application.App, window application.Window) {
	s.app = app
	s.window = window

	if s.deps.Hotkeys {
		s.setupHotkey()
	}
}

// Shutdown cleans up resources.
func (s *Service) Shutdown() {
	if s.hotkey != nil {
		s.hotkey.Stop()
	}
	s.Back()
}

func (s *Service) setupHotkey() {
	m, err := hotkey.NewManager(
		hotkey.Binding{Name: "record", Keys: hotkey.RecordKeys, Action: func() {
			if err := s.ToggleRecording(); err != nil {
				slog.Debug("record hotkey ignored", "error", err)
			}
		}},
		hotkey.Binding{Name: "screenshot", Keys: hotkey.ScreenshotKeys, Action: s.StartScreenshot},
		hotkey.Binding{Name: "clipboard", Keys: hotkey.ClipboardKeys, Action: func() {
			if err := s.TranslateClipboard(); err != nil {
				slog.Debug("clipboard hotkey ignored", "error", err)
			}
		}},
	)
	if err != nil {
		slog.Error("create hotkeys", "error", err)
		return
	}
	if err := m.Start(); err != nil {
		slog.Error("start hotkey", "error", err)
		return
	}
	s.hotkey = m
}

// emit is a safe wrapper around app.Event.Emit
func (s *Service) emit(name string, data any) {
	if s.deps.Emit != nil {
		s.deps.Emit(name, data)
		return
	}
	if s.app != nil {
		s.app.Event.Emit(name, data)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Shell / Navigation
// ─────────────────────────────────────────────────────────────────────────────

// Themes returns the destination selector entries.
func (s *Service) Themes() []themes.Theme {
	return themes.All()
}

// State returns the current shell snapshot.
func (s *Service) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Service) stateLocked() SessionState {
	if s.session == nil {
		return SessionState{}
	}
	theme := s.session.theme
	return SessionState{
		SessionID:   s.session.id,
		Destination: theme.ID,
		View:        s.session.view,
		Theme:       &theme,
	}
}

// SelectDestination enters the main shell for code ("IT" or "EG").
// A destination stays selected until Back.
func (s *Service) SelectDestination(code string) error {
	dest, ok := types.ParseDestination(code)
	if !ok {
		return fmt.Errorf("unknown destination %q", code)
	}

	s.mu.Lock()
	if s.session != nil {
		s.mu.Unlock()
		return fmt.Errorf("destination %s already selected", s.session.theme.ID)
	}
	theme := themes.MustLookup(dest)
	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		id:     uuid.NewString(),
		theme:  theme,
		view:   types.DefaultView,
		ctx:    ctx,
		cancel: cancel,
	}
	sess.explorer = newExplorer(ctx, s.env, theme)
	sess.learning = newLearning(s.env, theme)
	sess.translator = newTranslator(ctx, s.env, theme)
	s.session = sess
	state := s.stateLocked()
	s.mu.Unlock()

	slog.Info("destination selected", "session", sess.id, "destination", dest)
	s.emit(EventSessionState, state)
	sess.explorer.publish()
	sess.learning.publish()
	sess.translator.publish()
	return nil
}

// Back returns to the destination selector and discards all view state.
// Requests still in flight complete into closed controllers and are dropped.
func (s *Service) Back() {
	s.mu.Lock()
	sess := s.session
	s.session = nil
	s.mu.Unlock()

	if sess == nil {
		return
	}

	sess.cancel()
	sess.explorer.close()
	sess.learning.close()
	sess.translator.close()
	sess.images.close()

	slog.Info("session closed", "session", sess.id)
	s.emit(EventSessionState, SessionState{})
}

// SetView switches the active view. Controllers keep their state.
func (s *Service) SetView(name string) error {
	view, ok := types.ParseView(name)
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}

	s.mu.Lock()
	sess := s.session
	if sess == nil {
		s.mu.Unlock()
		return ErrNoDestination
	}
	sess.view = view
	state := s.stateLocked()
	s.mu.Unlock()

	s.emit(EventSessionState, state)
	if view == types.ViewLearning {
		sess.learning.activate()
	}
	return nil
}

func (s *Service) current() (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, ErrNoDestination
	}
	return s.session, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Explorer
// ─────────────────────────────────────────────────────────────────────────────

// ExplorerState returns the explorer snapshot.
func (s *Service) ExplorerState() (ExplorerState, error) {
	sess, err := s.current()
	if err != nil {
		return ExplorerState{}, err
	}
	return sess.explorer.Snapshot(), nil
}

// SetSearchMode switches between "text" and "gps".
func (s *Service) SetSearchMode(mode string) error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	return sess.explorer.SetMode(SearchMode(mode))
}

// Search submits a text query.
func (s *Service) Search(query string) error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.explorer.Search(query)
	return nil
}

// SearchNearby locates the device and recommends places around it.
func (s *Service) SearchNearby() error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.explorer.SearchNearby()
	return nil
}

// FocusPlace highlights result card i.
func (s *Service) FocusPlace(i int) error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	return sess.explorer.Focus(i)
}

// ─────────────────────────────────────────────────────────────────────────────
// Learning
// ─────────────────────────────────────────────────────────────────────────────

// LearningState returns the quiz snapshot.
func (s *Service) LearningState() (LearningState, error) {
	sess, err := s.current()
	if err != nil {
		return LearningState{}, err
	}
	return sess.learning.Snapshot(), nil
}

// Answer submits option for the current round.
func (s *Service) Answer(option string) error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.learning.Answer(option)
	return nil
}

// NextQuestion loads a new challenge at the current level.
func (s *Service) NextQuestion() error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.learning.Next()
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Translator
// ─────────────────────────────────────────────────────────────────────────────

// TranslatorState returns the translator snapshot.
func (s *Service) TranslatorState() (TranslatorState, error) {
	sess, err := s.current()
	if err != nil {
		return TranslatorState{}, err
	}
	return sess.translator.Snapshot(), nil
}

// SetTranslatorInput updates the typed text without translating it.
func (s *Service) SetTranslatorInput(text string) error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.translator.SetInput(text)
	return nil
}

// Translate translates the typed text in the current direction.
func (s *Service) Translate() error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.translator.Translate()
	return nil
}

// SwapDirection flips the translation direction.
func (s *Service) SwapDirection() error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.translator.Swap()
	return nil
}

// ToggleRecording starts or stops a voice capture.
func (s *Service) ToggleRecording() error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.translator.ToggleRecording()
	return nil
}

// PlayTranslation speaks the translated text of the current result.
func (s *Service) PlayTranslation() error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.translator.Play()
	return nil
}

// TranslateClipboard opens the translator with the clipboard text.
func (s *Service) TranslateClipboard() error {
	sess, err := s.current()
	if err != nil {
		return err
	}

	text, err := s.deps.Clipboard()
	if errors.Is(err, clipboard.ErrEmpty) {
		s.env.alert(localization.AlertClipboardEmpty)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get clipboard: %w", err)
	}

	s.ShowWindow()
	if err := s.SetView(string(types.ViewTranslator)); err != nil {
		return err
	}
	sess.translator.TranslateText(text)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Window & Image analysis
// ─────────────────────────────────────────────────────────────────────────────

// ShowWindow brings the main window to the front.
func (s *Service) ShowWindow() {
	if s.window != nil {
		s.window.Show()
		s.window.Focus()
	}
}

// AnalyzeImage describes a base64 image. The answer arrives as an
// image-analysis event.
func (s *Service) AnalyzeImage(data, mimeType string) error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	img, err := decodeImage(data)
	if err != nil {
		return err
	}
	s.analyze(sess, img, mimeType)
	return nil
}

// AnalyzeScreenshot lets the user pick a screen region and analyzes it.
func (s *Service) AnalyzeScreenshot() error {
	sess, err := s.current()
	if err != nil {
		return err
	}

	// Hide window to allow capturing screen behind it
	if s.window != nil {
		s.window.Hide()
		time.Sleep(100 * time.Millisecond)
	}
	img, err := s.deps.Screenshot(sess.ctx)
	s.ShowWindow()

	if errors.Is(err, screenshot.ErrCancelled) {
		return nil
	}
	if err != nil {
		slog.Warn("capture screenshot", "session", sess.id, "error", err)
		s.env.alert(localization.AlertScreenshotFailed)
		return nil
	}
	s.analyze(sess, img, screenshot.MIMEType)
	return nil
}

// StartScreenshot runs AnalyzeScreenshot on its own goroutine. The capture
// waits on the user's selection and must not hold a worker.
func (s *Service) StartScreenshot() {
	go func() {
		if err := s.AnalyzeScreenshot(); err != nil {
			slog.Debug("screenshot ignored", "error", err)
		}
	}()
}

func (s *Service) analyze(sess *session, img []byte, mimeType string) {
	id := sess.images.next()
	dest := sess.theme.ID
	s.env.run.Go(func() {
		res := s.env.gw.AnalyzeImage(context.Background(), img, mimeType, dest)
		if !sess.images.current(id) {
			return
		}
		s.emit(EventImageAnalysis, ImageAnalysis{Text: res.Value, Degraded: res.Degraded})
	})
}
