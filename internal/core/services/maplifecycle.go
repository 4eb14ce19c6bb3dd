package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/core/ports/driven"
	"github.com/custodia-labs/aptview/internal/core/ports/driving"
	"github.com/custodia-labs/aptview/internal/logger"
)

// Ensure MapLifecycle implements the interface.
var _ driving.MapService = (*MapLifecycle)(nil)

// SettingVWorldKey names the map tile credential in error messages.
const SettingVWorldKey = "VWORLD_API_KEY"

// MapLifecycle owns at most one live map widget. The widget is acquired
// when geocoded rows arrive and released on every other path: empty data,
// unmount, replacement and Close.
type MapLifecycle struct {
	factory driven.MapFactory
	tileKey func() string

	mu      sync.Mutex
	mount   driven.MountPoint
	current driven.MapWidget
	markers int
}

// NewMapLifecycle creates a manager. tileKey is consulted on every Sync
// so a credential added at runtime takes effect.
func NewMapLifecycle(factory driven.MapFactory, tileKey func() string) *MapLifecycle {
	return &MapLifecycle{factory: factory, tileKey: tileKey}
}

// Mount attaches the region maps are drawn into.
func (m *MapLifecycle) Mount(mount driven.MountPoint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mount = mount
}

// Unmount detaches the region and releases the live widget.
func (m *MapLifecycle) Unmount() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mount = nil
	m.releaseLocked()
}

// Sync replaces the live widget with one built from rows. Empty rows or
// a missing mount point only release. Rows without both coordinates get
// no marker.
func (m *MapLifecycle) Sync(rows []domain.GeocodedTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releaseLocked()
	if len(rows) == 0 || m.mount == nil || m.factory == nil {
		return nil
	}

	key := ""
	if m.tileKey != nil {
		key = strings.TrimSpace(m.tileKey())
	}
	if key == "" {
		return &domain.ConfigurationError{Setting: SettingVWorldKey, Feature: "지도"}
	}

	center, ok := firstPosition(rows)
	if !ok {
		logger.Debug("map: no row has coordinates")
		return nil
	}

	widget, err := m.factory.NewMap(m.mount, domain.MapOptions{Center: center, Zoom: domain.DefaultMapZoom})
	if err != nil {
		return fmt.Errorf("create map: %w", err)
	}

	count, err := populate(widget, rows, key)
	if err != nil {
		_ = widget.Close()
		return err
	}

	m.current = widget
	m.markers = count
	logger.Debug("map %s: %d markers", widget.ID(), count)
	return nil
}

// populate sets the base layer and adds one marker per located row.
func populate(widget driven.MapWidget, rows []domain.GeocodedTransaction, key string) (int, error) {
	if err := widget.SetBaseLayer(domain.NewVWorldLayer(key)); err != nil {
		return 0, fmt.Errorf("set base layer: %w", err)
	}
	layer, err := widget.AddMarkerLayer()
	if err != nil {
		return 0, fmt.Errorf("add marker layer: %w", err)
	}
	for i := range rows {
		if !rows[i].HasCoordinates() {
			continue
		}
		marker := domain.Marker{
			Position: domain.LatLng{Lat: *rows[i].Latitude, Lng: *rows[i].Longitude},
			Label:    rows[i].ApartmentName(),
		}
		if err := layer.AddMarker(marker); err != nil {
			return 0, fmt.Errorf("add marker: %w", err)
		}
	}
	return layer.Len(), nil
}

// firstPosition returns the coordinates of the first located row.
func firstPosition(rows []domain.GeocodedTransaction) (domain.LatLng, bool) {
	for i := range rows {
		if rows[i].HasCoordinates() {
			return domain.LatLng{Lat: *rows[i].Latitude, Lng: *rows[i].Longitude}, true
		}
	}
	return domain.LatLng{}, false
}

// Render draws the live widget.
func (m *MapLifecycle) Render() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return "", false
	}
	view, err := m.current.Render()
	if err != nil {
		logger.Warn("map render failed: %v", err)
		return "", false
	}
	return view, true
}

// Current returns the live widget, or nil.
func (m *MapLifecycle) Current() driven.MapWidget {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Markers returns the marker count of the live widget.
func (m *MapLifecycle) Markers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.markers
}

// Close releases the live widget. The mount point is kept.
func (m *MapLifecycle) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseLocked()
}

func (m *MapLifecycle) releaseLocked() {
	if m.current == nil {
		return
	}
	id := m.current.ID()
	if err := m.current.Close(); err != nil {
		logger.Warn("map %s: close failed: %v", id, err)
	}
	m.current = nil
	m.markers = 0
	logger.Debug("map %s released", id)
}
