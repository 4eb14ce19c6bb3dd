package driven

import "github.com/custodia-labs/aptview/internal/core/domain"

// MountPoint is the screen region a map widget draws into.
type MountPoint interface {
	// Size returns the region's current width and height in cells.
	Size() (width, height int)
}

// MapFactory constructs map widgets bound to a mount point.
type MapFactory interface {
	NewMap(mount MountPoint, opts domain.MapOptions) (MapWidget, error)
}

// MapWidget is one live map instance. It must be closed exactly once;
// every method fails after Close.
type MapWidget interface {
	// ID identifies the instance.
	ID() string

	// SetBaseLayer sets the raster tile layer.
	SetBaseLayer(layer domain.TileLayer) error

	// AddMarkerLayer adds an empty marker layer on top of the base layer.
	AddMarkerLayer() (MarkerLayer, error)

	// Render draws the widget at the mount point's current size.
	Render() (string, error)

	// Close releases the widget.
	Close() error
}

// MarkerLayer holds point markers.
type MarkerLayer interface {
	AddMarker(m domain.Marker) error
	Len() int
}
