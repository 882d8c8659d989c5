// Package langdetect guesses which of the supported languages a text is in.
package langdetect

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// Codes returned by Detect.
const (
	Spanish = "es"
	Italian = "it"
	Arabic  = "ar"
)

// minRunes is the shortest input worth classifying.
const minRunes = 3

var detector = sync.OnceValue(func() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.Spanish, lingua.Italian, lingua.Arabic).
		WithMinimumRelativeDistance(0.1).
		Build()
})

var names = map[lingua.Language][2]string{
	lingua.Spanish: {Spanish, "Español"},
	lingua.Italian: {Italian, "Italiano"},
	lingua.Arabic:  {Arabic, "Árabe"},
}

// Detect returns the language code and Spanish display name of text.
// Both are empty when the text is too short or ambiguous.
func Detect(text string) (code, name string) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minRunes {
		return "", ""
	}

	lang, ok := detector().DetectLanguageOf(text)
	if !ok {
		return "", ""
	}
	n, ok := names[lang]
	if !ok {
		return "", ""
	}
	return n[0], n[1]
}
