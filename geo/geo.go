// Package geo resolves the device position.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.aimuz.me/viajero/internal/types"
)

// DefaultLookupURL answers with the caller's approximate position.
const DefaultLookupURL = "https://ipapi.co/json/"

var (
	// ErrPermissionDenied is returned when location access is turned off.
	ErrPermissionDenied = errors.New("geo: location permission denied")
	// ErrUnavailable is returned when no position could be determined.
	ErrUnavailable = errors.New("geo: position unavailable")
)

// Mode selects a Locator implementation.
type Mode string

const (
	ModeIP     Mode = "ip"
	ModeStatic Mode = "static"
	ModeOff    Mode = "off"
)

// Locator produces a one-shot coordinate reading.
type Locator interface {
	Locate(ctx context.Context) (types.Coords, error)
}

// Options configures New.
type Options struct {
	Mode       Mode
	Static     types.Coords
	LookupURL  string
	HTTPClient *http.Client
}

// New returns the Locator for opts.Mode.
func New(opts Options) (Locator, error) {
	switch opts.Mode {
	case ModeIP, "":
		return NewIPLocator(opts.LookupURL, opts.HTTPClient), nil
	case ModeStatic:
		return StaticLocator(opts.Static), nil
	case ModeOff:
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("geo: unknown mode %q", opts.Mode)
	}
}

// StaticLocator always reports the same position.
type StaticLocator types.Coords

func (s StaticLocator) Locate(context.Context) (types.Coords, error) {
	return types.Coords(s), nil
}

// Disabled denies every request.
type Disabled struct{}

func (Disabled) Locate(context.Context) (types.Coords, error) {
	return types.Coords{}, ErrPermissionDenied
}

// IPLocator estimates the position from the public IP address.
type IPLocator struct {
	url  string
	http *http.Client
}

// NewIPLocator creates an IPLocator querying url.
func NewIPLocator(url string, client *http.Client) *IPLocator {
	if url == "" {
		url = DefaultLookupURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &IPLocator{url: url, http: client}
}

// ipResponse accepts both ipapi.co and ip-api.com field names.
type ipResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
}

func (l *IPLocator) Locate(ctx context.Context) (types.Coords, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return types.Coords{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.http.Do(req)
	if err != nil {
		return types.Coords{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return types.Coords{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return types.Coords{}, fmt.Errorf("%w: lookup status %d", ErrUnavailable, resp.StatusCode)
	}

	var r ipResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return types.Coords{}, fmt.Errorf("unmarshal response: %w", err)
	}

	switch {
	case r.Latitude != nil && r.Longitude != nil:
		return types.Coords{Lat: *r.Latitude, Lng: *r.Longitude}, nil
	case r.Lat != nil && r.Lon != nil:
		return types.Coords{Lat: *r.Lat, Lng: *r.Lon}, nil
	}
	return types.Coords{}, ErrUnavailable
}
