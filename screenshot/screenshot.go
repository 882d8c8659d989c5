// Package screenshot captures a user-selected region of the screen.
package screenshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrCancelled is returned when the user dismissed the selection.
	ErrCancelled = errors.New("screenshot: cancelled")
	// ErrUnsupported is returned on platforms without an interactive tool.
	ErrUnsupported = errors.New("screenshot: unsupported platform")
)

// MIMEType of captured images.
const MIMEType = "image/png"

// Capture runs the interactive capture tool and returns the PNG bytes.
func Capture(ctx context.Context) ([]byte, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("viajero_screenshot_%d.png", time.Now().UnixNano()))
	if err := captureTo(ctx, path); err != nil {
		return nil, err
	}
	return readAndRemove(path)
}

// readAndRemove returns the file contents and deletes it.
// A missing or empty file means the user cancelled.
func readAndRemove(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrCancelled
	}
	if err != nil {
		return nil, fmt.Errorf("read screenshot: %w", err)
	}
	_ = os.Remove(path)

	if len(data) == 0 {
		return nil, ErrCancelled
	}
	return data, nil
}
