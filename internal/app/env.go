package app

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.aimuz.me/viajero/audio"
	"go.aimuz.me/viajero/geo"
	"go.aimuz.me/viajero/internal/workers"
)

// env is shared by the controllers of every session.
type env struct {
	gw       Gateway
	run      workers.Runner
	msgs     Messages
	emit     func(name string, data any)
	after    func(d time.Duration, f func())
	delay    time.Duration
	locator  geo.Locator
	output   audio.Output
	recorder Recorder
	detect   func(text string) (code, name string)
}

// alert emits a blocking notification with the localized message id.
func (e *env) alert(id string) {
	e.emit(EventAlert, Alert{Message: e.msgs.Translate(id)})
}

// embedURL is the embedded map addressed by a place name or "lat,lng".
func embedURL(address string) string {
	q := strings.ReplaceAll(url.QueryEscape(address), "+", "%20")
	return "https://maps.google.com/maps?q=" + q + "&output=embed"
}

var errEmptyImage = errors.New("empty image")

// decodeImage accepts raw base64 or a data URL.
func decodeImage(data string) ([]byte, error) {
	if i := strings.Index(data, ";base64,"); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+len(";base64,"):]
	}
	img, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if len(img) == 0 {
		return nil, errEmptyImage
	}
	return img, nil
}
