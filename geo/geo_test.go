package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.aimuz.me/viajero/internal/types"
)

func TestNew(t *testing.T) {
	tests := []struct {
		mode    Mode
		want    any
		wantErr bool
	}{
		{mode: "", want: &IPLocator{}},
		{mode: ModeIP, want: &IPLocator{}},
		{mode: ModeStatic, want: StaticLocator{}},
		{mode: ModeOff, want: Disabled{}},
		{mode: "gps", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			l, err := New(Options{Mode: tt.mode})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, l)
		})
	}
}

func TestStaticAndDisabled(t *testing.T) {
	c, err := StaticLocator{Lat: 41.89, Lng: 12.49}.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.Coords{Lat: 41.89, Lng: 12.49}, c)

	_, err = Disabled{}.Locate(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestIPLocator(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    types.Coords
		wantErr error
	}{
		{name: "ipapi", status: 200, body: `{"city": "Cairo", "latitude": 30.04, "longitude": 31.24}`, want: types.Coords{Lat: 30.04, Lng: 31.24}},
		{name: "ip-api", status: 200, body: `{"status": "success", "lat": 45.46, "lon": 9.19}`, want: types.Coords{Lat: 45.46, Lng: 9.19}},
		{name: "zero coordinates", status: 200, body: `{"latitude": 0, "longitude": 0}`, want: types.Coords{}},
		{name: "missing fields", status: 200, body: `{"error": true}`, wantErr: ErrUnavailable},
		{name: "rate limited", status: 429, body: `{}`, wantErr: ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/json", r.Header.Get("Accept"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := NewIPLocator(srv.URL, srv.Client()).Locate(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
