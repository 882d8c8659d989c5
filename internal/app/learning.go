package app

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"go.aimuz.me/viajero/internal/types"
	"go.aimuz.me/viajero/localization"
	"go.aimuz.me/viajero/themes"
)

// answersPerLevel correct answers advance the level by one.
const answersPerLevel = 5

// Learning runs the quiz rounds of one session.
type Learning struct {
	env   *env
	theme themes.Theme
	seq   requestSeq

	mu      sync.Mutex
	started bool
	state   LearningState
}

func newLearning(e *env, theme themes.Theme) *Learning {
	return &Learning{
		env:   e,
		theme: theme,
		state: LearningState{Status: LearningIdle, Level: 1},
	}
}

// Snapshot returns a copy of the quiz state.
func (l *Learning) Snapshot() LearningState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Learning) snapshotLocked() LearningState {
	st := l.state
	if st.Challenge != nil {
		c := *st.Challenge
		c.Options = slices.Clone(c.Options)
		st.Challenge = &c
	}
	return st
}

func (l *Learning) publish() {
	l.env.emit(EventLearningState, l.Snapshot())
}

// activate loads the first challenge the first time the view is shown.
func (l *Learning) activate() {
	l.mu.Lock()
	first := !l.started
	l.started = true
	l.mu.Unlock()

	if first {
		l.load()
	}
}

// load requests a challenge at the current level.
func (l *Learning) load() {
	if l.seq.isClosed() {
		return
	}
	id := l.seq.next()

	l.mu.Lock()
	l.started = true
	l.state.Status = LearningLoading
	l.state.Challenge = nil
	l.state.Selected = ""
	l.state.Correct = false
	l.state.Degraded = false
	level := l.state.Level
	st := l.snapshotLocked()
	l.mu.Unlock()
	l.env.emit(EventLearningState, st)

	dest := l.theme.ID
	l.env.run.Go(func() {
		res := l.env.gw.Challenge(context.Background(), dest, level)
		l.finish(id, res)
	})
}

func (l *Learning) finish(id uint64, res types.Result[types.LanguageChallenge]) {
	if !l.seq.current(id) {
		slog.Debug("stale challenge dropped", "request", id)
		return
	}

	l.mu.Lock()
	c := res.Value
	l.state.Challenge = &c
	l.state.Status = LearningUnanswered
	l.state.Degraded = res.Degraded
	st := l.snapshotLocked()
	l.mu.Unlock()
	l.env.emit(EventLearningState, st)
}

// Answer accepts the first answer of a round and ignores the rest.
// Every fifth correct answer schedules a level advance.
func (l *Learning) Answer(option string) {
	l.mu.Lock()
	if l.state.Status != LearningUnanswered || l.state.Challenge == nil {
		l.mu.Unlock()
		return
	}

	correct := l.state.Challenge.IsCorrect(option)
	l.state.Status = LearningAnswered
	l.state.Selected = option
	l.state.Correct = correct
	levelUp := false
	if correct {
		l.state.Score++
		levelUp = l.state.Score%answersPerLevel == 0
	}
	st := l.snapshotLocked()
	l.mu.Unlock()
	l.env.emit(EventLearningState, st)

	if levelUp {
		l.env.after(l.env.delay, l.levelUp)
	}
}

// levelUp runs after the level-complete delay unless the session ended.
func (l *Learning) levelUp() {
	if l.seq.isClosed() {
		return
	}
	l.env.alert(localization.AlertLevelComplete)

	l.mu.Lock()
	l.state.Level++
	level := l.state.Level
	l.mu.Unlock()

	slog.Debug("quiz level advanced", "level", level)
	l.load()
}

// Next loads a new challenge at the same level.
func (l *Learning) Next() {
	l.load()
}

func (l *Learning) close() {
	l.seq.close()
}
