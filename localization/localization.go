// Package localization serves the user-facing Spanish strings.
package localization

import (
	"embed"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Message ids.
const (
	AlertGPSDisabled         = "AlertGPSDisabled"
	AlertLocationUnavailable = "AlertLocationUnavailable"
	AlertMicDenied           = "AlertMicDenied"
	AlertPlaybackFailed      = "AlertPlaybackFailed"
	AlertLevelComplete       = "AlertLevelComplete"
	AlertScreenshotFailed    = "AlertScreenshotFailed"
	AlertClipboardEmpty      = "AlertClipboardEmpty"

	DirectionsLabel   = "DirectionsLabel"
	NextQuestionLabel = "NextQuestionLabel"
	LevelLabel        = "LevelLabel"
	ScoreLabel        = "ScoreLabel"

	TrayShow       = "TrayShow"
	TrayScreenshot = "TrayScreenshot"
	TrayClipboard  = "TrayClipboard"
	TrayBack       = "TrayBack"
	TrayQuit       = "TrayQuit"
)

//go:embed messages.*.toml
var messages embed.FS

// Manager resolves message ids for a fixed language preference.
type Manager struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
}

// NewManager loads the embedded message files. Spanish is the default.
func NewManager(languages ...string) (*Manager, error) {
	bundle := i18n.NewBundle(language.Spanish)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := messages.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	for _, e := range entries {
		data, err := messages.ReadFile(e.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
	}

	return &Manager{
		bundle:    bundle,
		localizer: i18n.NewLocalizer(bundle, append(languages, language.Spanish.String())...),
	}, nil
}

// Translate returns the message for id, or id itself when it is unknown.
func (m *Manager) Translate(id string) string {
	return m.TranslateWithMap(id, nil)
}

// TranslateWithMap fills template variables into the message for id.
func (m *Manager) TranslateWithMap(id string, vars map[string]any) string {
	msg, err := m.localizer.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: vars})
	if err != nil {
		return id
	}
	return msg
}

// TranslateCount selects the plural form for count.
func (m *Manager) TranslateCount(id string, count int) string {
	msg, err := m.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: map[string]any{"Count": count},
		PluralCount:  count,
	})
	if err != nil {
		return id
	}
	return msg
}
