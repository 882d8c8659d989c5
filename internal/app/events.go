// Package app provides the core application service for Wails bindings.
package app

import (
	"go.aimuz.me/viajero/internal/types"
	"go.aimuz.me/viajero/themes"
)

// Event names for frontend communication.
const (
	EventSessionState    = "session-state"
	EventExplorerState   = "explorer-state"
	EventLearningState   = "learning-state"
	EventTranslatorState = "translator-state"
	EventAlert           = "alert"
	EventImageAnalysis   = "image-analysis"
)

// SessionState is the shell snapshot. Theme is nil on the selector screen.
type SessionState struct {
	SessionID   string            `json:"sessionId,omitempty"`
	Destination types.Destination `json:"destination,omitempty"`
	View        types.View        `json:"view,omitempty"`
	Theme       *themes.Theme     `json:"theme,omitempty"`
}

// SearchMode selects how the explorer builds its query.
type SearchMode string

const (
	SearchText SearchMode = "text"
	SearchGPS  SearchMode = "gps"
)

// ExplorerStatus is the explorer's request state.
type ExplorerStatus string

const (
	ExplorerIdle      ExplorerStatus = "idle"
	ExplorerSearching ExplorerStatus = "searching"
	ExplorerResults   ExplorerStatus = "results"
	ExplorerEmpty     ExplorerStatus = "empty"
	ExplorerFailed    ExplorerStatus = "failed"
)

// ExplorerState is the explorer snapshot.
type ExplorerState struct {
	Mode    SearchMode     `json:"mode"`
	Query   string         `json:"query"`
	Status  ExplorerStatus `json:"status"`
	Places  []types.Place  `json:"places"`
	Focused int            `json:"focused"` // -1 when no card is focused
	MapURL  string         `json:"mapUrl"`
}

// LearningStatus is the quiz round state.
type LearningStatus string

const (
	LearningIdle       LearningStatus = "idle"
	LearningLoading    LearningStatus = "loading"
	LearningUnanswered LearningStatus = "unanswered"
	LearningAnswered   LearningStatus = "answered"
)

// LearningState is the quiz snapshot.
type LearningState struct {
	Status    LearningStatus           `json:"status"`
	Challenge *types.LanguageChallenge `json:"challenge,omitempty"`
	Selected  string                   `json:"selected,omitempty"`
	Correct   bool                     `json:"correct"`
	Score     int                      `json:"score"`
	Level     int                      `json:"level"`
	Degraded  bool                     `json:"degraded"`
}

// TranslatorStatus is the translator state.
type TranslatorStatus string

const (
	TranslatorIdle        TranslatorStatus = "idle"
	TranslatorRecording   TranslatorStatus = "recording"
	TranslatorTranslating TranslatorStatus = "translating"
	TranslatorResult      TranslatorStatus = "result"
)

// TranslatorState is the translator snapshot.
type TranslatorState struct {
	Direction types.Direction          `json:"direction"`
	From      string                   `json:"from"`
	To        string                   `json:"to"`
	Input     string                   `json:"input"`
	Status    TranslatorStatus         `json:"status"`
	Result    *types.TranslationResult `json:"result,omitempty"`
	Degraded  bool                     `json:"degraded"`
	Playing   bool                     `json:"playing"`

	// SuggestedDirection is set when the typed text looks like the
	// other side of the current direction.
	SuggestedDirection types.Direction `json:"suggestedDirection,omitempty"`
}

// Alert is a blocking notification shown by the frontend.
type Alert struct {
	Message string `json:"message"`
}

// ImageAnalysis carries the outcome of a screenshot or image analysis.
type ImageAnalysis struct {
	Text     string `json:"text"`
	Degraded bool   `json:"degraded"`
}
