package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"go.aimuz.me/viajero/gateway"
	"go.aimuz.me/viajero/geo"
	"go.aimuz.me/viajero/internal/types"
	"go.aimuz.me/viajero/localization"
	"go.aimuz.me/viajero/themes"
)

// currentLocation addresses the map while GPS coordinates are pending.
const currentLocation = "current location"

// Explorer recommends places by text query or device position.
type Explorer struct {
	env   *env
	theme themes.Theme
	ctx   context.Context
	seq   requestSeq

	mu    sync.Mutex
	state ExplorerState
}

func newExplorer(ctx context.Context, e *env, theme themes.Theme) *Explorer {
	return &Explorer{
		env:   e,
		theme: theme,
		ctx:   ctx,
		state: ExplorerState{
			Mode:    SearchText,
			Status:  ExplorerIdle,
			Places:  []types.Place{},
			Focused: -1,
			MapURL:  embedURL(theme.Name),
		},
	}
}

// Snapshot returns a copy of the explorer state.
func (x *Explorer) Snapshot() ExplorerState {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.snapshotLocked()
}

func (x *Explorer) snapshotLocked() ExplorerState {
	st := x.state
	st.Places = slices.Clone(x.state.Places)
	return st
}

func (x *Explorer) publish() {
	x.env.emit(EventExplorerState, x.Snapshot())
}

// update applies fn under the lock and publishes the result.
func (x *Explorer) update(fn func(st *ExplorerState)) {
	x.mu.Lock()
	fn(&x.state)
	st := x.snapshotLocked()
	x.mu.Unlock()
	x.env.emit(EventExplorerState, st)
}

// SetMode switches the search mode. Results are kept.
func (x *Explorer) SetMode(mode SearchMode) error {
	if mode != SearchText && mode != SearchGPS {
		return fmt.Errorf("unknown search mode %q", mode)
	}
	x.update(func(st *ExplorerState) { st.Mode = mode })
	return nil
}

// Search recommends places matching query. An empty query only resets
// the map to the destination.
func (x *Explorer) Search(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		x.seq.next()
		x.update(func(st *ExplorerState) {
			st.Mode = SearchText
			st.Query = ""
			st.Status = ExplorerIdle
			st.MapURL = embedURL(x.theme.Name)
		})
		return
	}

	id := x.seq.next()
	x.update(func(st *ExplorerState) {
		st.Mode = SearchText
		st.Query = query
		st.Status = ExplorerSearching
		st.Places = []types.Place{}
		st.Focused = -1
		st.MapURL = embedURL(query)
	})

	dest := x.theme.ID
	x.env.run.Go(func() {
		res := x.env.gw.Recommend(context.Background(), gateway.Query{Text: query}, dest)
		x.finish(id, res)
	})
}

// SearchNearby asks the locator for coordinates, centres the map on them
// and then recommends places around them.
func (x *Explorer) SearchNearby() {
	id := x.seq.next()
	x.update(func(st *ExplorerState) {
		st.Mode = SearchGPS
		st.Query = ""
		st.Status = ExplorerSearching
		st.Places = []types.Place{}
		st.Focused = -1
		st.MapURL = embedURL(currentLocation)
	})

	dest := x.theme.ID
	x.env.run.Go(func() {
		coords, err := x.env.locator.Locate(x.ctx)
		if !x.seq.current(id) {
			return
		}
		if err != nil {
			slog.Warn("locate device", "error", err)
			msg := localization.AlertLocationUnavailable
			if errors.Is(err, geo.ErrPermissionDenied) {
				msg = localization.AlertGPSDisabled
			}
			x.env.alert(msg)
			x.update(func(st *ExplorerState) { st.Status = ExplorerIdle })
			return
		}

		x.update(func(st *ExplorerState) { st.MapURL = embedURL(formatCoords(coords)) })

		res := x.env.gw.Recommend(context.Background(), gateway.Query{Coords: &coords}, dest)
		x.finish(id, res)
	})
}

func (x *Explorer) finish(id uint64, res types.Result[[]types.Place]) {
	if !x.seq.current(id) {
		slog.Debug("stale recommendations dropped", "request", id)
		return
	}

	status := ExplorerResults
	switch {
	case res.Degraded && errors.Is(res.Reason, gateway.ErrNoPlaces):
		status = ExplorerEmpty
	case res.Degraded:
		status = ExplorerFailed
	case len(res.Value) == 0:
		status = ExplorerEmpty
	}

	x.update(func(st *ExplorerState) {
		st.Status = status
		st.Places = slices.Clone(res.Value)
		if st.Places == nil {
			st.Places = []types.Place{}
		}
		st.Focused = -1
	})
}

// Focus highlights card i and re-centres the map on the place name when
// its link is a search rather than a precise pin.
func (x *Explorer) Focus(i int) error {
	x.mu.Lock()
	if i < 0 || i >= len(x.state.Places) {
		n := len(x.state.Places)
		x.mu.Unlock()
		return fmt.Errorf("place %d out of range [0,%d)", i, n)
	}
	x.state.Focused = i
	if p := x.state.Places[i]; strings.Contains(p.MapsURI, "search") {
		x.state.MapURL = embedURL(p.Name)
	}
	st := x.snapshotLocked()
	x.mu.Unlock()

	x.env.emit(EventExplorerState, st)
	return nil
}

func (x *Explorer) close() {
	x.seq.close()
}

func formatCoords(c types.Coords) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}
