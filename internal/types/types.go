// Package types provides shared type definitions for the application.
package types

import "strings"

// Destination is one of the supported travel contexts.
type Destination string

const (
	Italy Destination = "IT"
	Egypt Destination = "EG"
)

// Destinations lists every supported destination in selector order.
var Destinations = []Destination{Italy, Egypt}

// ParseDestination converts a frontend code ("IT", "eg", ...) to a Destination.
func ParseDestination(code string) (Destination, bool) {
	d := Destination(strings.ToUpper(strings.TrimSpace(code)))
	switch d {
	case Italy, Egypt:
		return d, true
	}
	return "", false
}

// View identifies one of the main shell views.
type View string

const (
	ViewExplorer   View = "explorer"
	ViewLearning   View = "learning"
	ViewTranslator View = "translator"
)

// DefaultView is the view shown when a destination is entered.
const DefaultView = ViewExplorer

// ParseView validates a view name coming from the frontend.
func ParseView(name string) (View, bool) {
	v := View(name)
	switch v {
	case ViewExplorer, ViewLearning, ViewTranslator:
		return v, true
	}
	return "", false
}

// Coords is a latitude/longitude pair in decimal degrees.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a single recommendation card.
type Place struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	PhotoURL    string  `json:"photoUrl"`
	MapsURI     string  `json:"mapsUri"`
}

// TranslationResult is the outcome of a text or audio translation.
type TranslationResult struct {
	Original      string `json:"original"`
	Translated    string `json:"translated"`
	Pronunciation string `json:"pronunciation"` // Phonetic text for Spanish speakers
	Context       string `json:"context,omitempty"`
}

// LanguageChallenge is one quiz round.
type LanguageChallenge struct {
	Question        string   `json:"question"`
	Options         []string `json:"options"`
	Answer          string   `json:"answer"`
	Explanation     string   `json:"explanation"`
	DifficultyLevel int      `json:"difficultyLevel"`
}

// IsCorrect reports whether option is exactly the canonical answer.
func (c LanguageChallenge) IsCorrect(option string) bool {
	return option == c.Answer
}

// Direction is the translator's language direction.
type Direction string

const (
	// SpanishToTarget translates from Spanish into the destination language.
	SpanishToTarget Direction = "es-target"
	// TargetToSpanish translates from the destination language into Spanish.
	TargetToSpanish Direction = "target-es"
)

// Swap returns the opposite direction.
func (d Direction) Swap() Direction {
	if d == SpanishToTarget {
		return TargetToSpanish
	}
	return SpanishToTarget
}

// Usage represents token usage statistics from AI calls.
type Usage struct {
	PromptTokens     int  `json:"promptTokens"`
	CompletionTokens int  `json:"completionTokens"`
	TotalTokens      int  `json:"totalTokens"`
	CacheHit         bool `json:"cacheHit"`
}
