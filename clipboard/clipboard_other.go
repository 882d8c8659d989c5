//go:build !darwin

package clipboard

import (
	"errors"

	"github.com/wailsapp/wails/v3/pkg/application"
)

func getClipboardContent(app *application.App) (string, error) {
	if app == nil {
		return "", errors.New("clipboard: application not running")
	}
	text, ok := app.Clipboard.Text()
	if !ok {
		return "", ErrEmpty
	}
	return text, nil
}
