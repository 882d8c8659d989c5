package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"go.aimuz.me/viajero/audio"
	"go.aimuz.me/viajero/audiocapture"
	"go.aimuz.me/viajero/internal/types"
	"go.aimuz.me/viajero/langdetect"
	"go.aimuz.me/viajero/localization"
	"go.aimuz.me/viajero/themes"
)

// spanish is the traveller's language as named in prompts.
const spanish = "Español"

// Translator translates typed text and voice captures, and speaks results.
type Translator struct {
	env   *env
	theme themes.Theme
	ctx   context.Context
	seq   requestSeq

	// toggle serializes ToggleRecording.
	toggle sync.Mutex

	mu        sync.Mutex
	recording bool
	state     TranslatorState
}

func newTranslator(ctx context.Context, e *env, theme themes.Theme) *Translator {
	t := &Translator{
		env:   e,
		theme: theme,
		ctx:   ctx,
		state: TranslatorState{Direction: types.SpanishToTarget, Status: TranslatorIdle},
	}
	t.state.From, t.state.To = t.languages(types.SpanishToTarget)
	return t
}

// languages returns the (from, to) language names for dir.
func (t *Translator) languages(dir types.Direction) (from, to string) {
	if dir == types.TargetToSpanish {
		return t.theme.Language, spanish
	}
	return spanish, t.theme.Language
}

// Snapshot returns a copy of the translator state.
func (t *Translator) Snapshot() TranslatorState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Translator) snapshotLocked() TranslatorState {
	st := t.state
	if st.Result != nil {
		r := *st.Result
		st.Result = &r
	}
	return st
}

func (t *Translator) publish() {
	t.env.emit(EventTranslatorState, t.Snapshot())
}

func (t *Translator) update(fn func(st *TranslatorState)) {
	t.mu.Lock()
	fn(&t.state)
	st := t.snapshotLocked()
	t.mu.Unlock()
	t.env.emit(EventTranslatorState, st)
}

// suggest returns the opposite direction when text looks like the
// current source is wrong.
func (t *Translator) suggest(text string, dir types.Direction) types.Direction {
	code, _ := t.env.detect(text)
	switch {
	case code == "":
		return ""
	case dir == types.SpanishToTarget && code == t.theme.LanguageCode:
		return types.TargetToSpanish
	case dir == types.TargetToSpanish && code == langdetect.Spanish:
		return types.SpanishToTarget
	}
	return ""
}

// SetInput replaces the typed text.
func (t *Translator) SetInput(text string) {
	t.mu.Lock()
	dir := t.state.Direction
	t.mu.Unlock()
	hint := t.suggest(text, dir)

	t.update(func(st *TranslatorState) {
		st.Input = text
		st.SuggestedDirection = hint
	})
}

// Swap flips the direction; text and result stay.
func (t *Translator) Swap() {
	t.mu.Lock()
	dir := t.state.Direction.Swap()
	input := t.state.Input
	t.mu.Unlock()
	hint := t.suggest(input, dir)

	t.update(func(st *TranslatorState) {
		st.Direction = dir
		st.From, st.To = t.languages(dir)
		st.SuggestedDirection = hint
	})
}

// TranslateText sets the input to text and translates it.
func (t *Translator) TranslateText(text string) {
	t.SetInput(text)
	t.Translate()
}

// Translate translates the typed text in the current direction.
func (t *Translator) Translate() {
	t.mu.Lock()
	text := strings.TrimSpace(t.state.Input)
	if text == "" || t.recording {
		t.mu.Unlock()
		return
	}
	from, to := t.state.From, t.state.To
	t.mu.Unlock()

	id := t.seq.next()
	t.update(func(st *TranslatorState) { st.Status = TranslatorTranslating })

	t.env.run.Go(func() {
		res := t.env.gw.Translate(context.Background(), text, from, to)
		t.finish(id, res, false)
	})
}

// ToggleRecording starts a voice capture, or stops the running one and
// translates what was said.
func (t *Translator) ToggleRecording() {
	t.toggle.Lock()
	defer t.toggle.Unlock()

	t.mu.Lock()
	recording := t.recording
	t.mu.Unlock()

	if recording {
		t.stopRecording()
		return
	}
	t.startRecording()
}

func (t *Translator) startRecording() {
	err := t.env.recorder.Start()
	if errors.Is(err, audiocapture.ErrRunning) {
		slog.Debug("recording already running")
		return
	}
	if err != nil {
		slog.Warn("start recording", "error", err)
		t.env.alert(localization.AlertMicDenied)
		return
	}

	// A text translation still in flight must not overwrite the recording.
	t.seq.next()
	t.mu.Lock()
	t.recording = true
	t.mu.Unlock()
	t.update(func(st *TranslatorState) { st.Status = TranslatorRecording })
}

func (t *Translator) stopRecording() {
	id := t.seq.next()
	t.mu.Lock()
	t.recording = false
	from, to := t.state.From, t.state.To
	t.mu.Unlock()
	t.update(func(st *TranslatorState) { st.Status = TranslatorTranslating })

	t.env.run.Go(func() {
		data, mimeType, err := t.env.recorder.Stop()
		if err != nil {
			slog.Warn("stop recording", "error", err)
			if t.seq.current(id) {
				t.update(func(st *TranslatorState) { st.Status = TranslatorIdle })
			}
			return
		}
		res := t.env.gw.TranslateAudio(context.Background(), data, mimeType, from, to)
		t.finish(id, res, true)
	})
}

func (t *Translator) finish(id uint64, res types.Result[types.TranslationResult], fromAudio bool) {
	if !t.seq.current(id) {
		slog.Debug("stale translation dropped", "request", id)
		return
	}

	r := res.Value
	t.update(func(st *TranslatorState) {
		st.Status = TranslatorResult
		st.Result = &r
		st.Degraded = res.Degraded
		if fromAudio {
			st.Input = r.Original
			st.SuggestedDirection = ""
		}
	})
}

// Play speaks the translated text of the current result through the
// audio output, resuming it first when suspended.
func (t *Translator) Play() {
	t.mu.Lock()
	if t.state.Result == nil || t.state.Degraded || t.state.Playing {
		t.mu.Unlock()
		return
	}
	text := t.state.Result.Translated
	t.state.Playing = true
	st := t.snapshotLocked()
	t.mu.Unlock()
	t.env.emit(EventTranslatorState, st)

	t.env.run.Go(func() {
		err := t.speak(text)
		if t.seq.isClosed() {
			return
		}
		if err != nil {
			slog.Warn("play translation", "error", err)
			t.env.alert(localization.AlertPlaybackFailed)
		}
		t.update(func(st *TranslatorState) { st.Playing = false })
	})
}

// errNoSpeech means synthesis degraded; nothing is played.
var errNoSpeech = errors.New("no speech")

func (t *Translator) speak(text string) error {
	res := t.env.gw.Speak(context.Background(), text)
	if res.Degraded {
		slog.Debug("speech unavailable", "reason", res.Reason)
		return nil
	}
	if len(res.Value) == 0 {
		return errNoSpeech
	}

	buf, err := audio.DecodePCM16(res.Value)
	if err != nil {
		return err
	}
	out := t.env.output
	if out.Suspended() {
		if err := out.Resume(); err != nil {
			return err
		}
	}
	if err := out.Play(t.ctx, buf); err != nil && t.ctx.Err() == nil {
		return err
	}
	return nil
}

func (t *Translator) close() {
	t.seq.close()
	t.mu.Lock()
	recording := t.recording
	t.recording = false
	t.mu.Unlock()
	if recording {
		t.env.recorder.Cancel()
	}
}
