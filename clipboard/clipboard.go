// Package clipboard reads the system clipboard for the translate-clipboard action.
package clipboard

import (
	"errors"
	"strings"

	"github.com/wailsapp/wails/v3/pkg/application"
)

// ErrEmpty is returned when the clipboard holds no text.
var ErrEmpty = errors.New("clipboard: no text")

// GetText returns the trimmed text on the clipboard.
func GetText(app *application.App) (string, error) {
	text, err := getClipboardContent(app)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}
