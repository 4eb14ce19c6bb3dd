package terminal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/core/ports/driven"
)

// Ensure the adapter types implement the interfaces.
var (
	_ driven.MapFactory  = (*Factory)(nil)
	_ driven.MapWidget   = (*Widget)(nil)
	_ driven.MarkerLayer = (*MarkerLayer)(nil)
)

// Errors returned by the widget.
var (
	ErrClosed     = errors.New("map widget closed")
	ErrNoMount    = errors.New("map widget needs a mount point")
	ErrNoBaseTile = errors.New("base layer must be set before markers")
)

// Grid glyphs.
const (
	glyphEmpty  = '·'
	glyphMarker = '●'
	glyphCenter = '+'
	glyphMany   = '*'
)

// legendLimit caps the number of labelled markers listed under the grid.
const legendLimit = 5

// Factory creates terminal map widgets.
type Factory struct{}

// NewFactory creates a widget factory.
func NewFactory() *Factory {
	return &Factory{}
}

// NewMap creates a widget bound to mount.
func (f *Factory) NewMap(mount driven.MountPoint, opts domain.MapOptions) (driven.MapWidget, error) {
	if mount == nil {
		return nil, ErrNoMount
	}
	if opts.Zoom < 0 || opts.Zoom > 19 {
		return nil, fmt.Errorf("zoom %d out of range 0..19", opts.Zoom)
	}
	return &Widget{
		id:     uuid.NewString(),
		mount:  mount,
		center: opts.Center,
		zoom:   opts.Zoom,
	}, nil
}

// Widget is one map instance.
type Widget struct {
	id     string
	mount  driven.MountPoint
	center domain.LatLng
	zoom   int

	mu     sync.Mutex
	base   *domain.TileLayer
	layers []*MarkerLayer
	closed bool
}

// ID returns the instance id.
func (w *Widget) ID() string {
	return w.id
}

// SetBaseLayer sets the raster tile layer.
func (w *Widget) SetBaseLayer(layer domain.TileLayer) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.base = &layer
	return nil
}

// AddMarkerLayer adds an empty marker layer.
func (w *Widget) AddMarkerLayer() (driven.MarkerLayer, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrClosed
	}
	if w.base == nil {
		return nil, ErrNoBaseTile
	}
	layer := &MarkerLayer{widget: w}
	w.layers = append(w.layers, layer)
	return layer, nil
}

// CenterTile returns the tile address under the centre. Centre and zoom
// are fixed at construction.
func (w *Widget) CenterTile() (z, x, y int) {
	x, y = tileOf(w.center, w.zoom)
	return w.zoom, x, y
}

// Closed reports whether Close was called.
func (w *Widget) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Close releases the widget. A second Close fails.
func (w *Widget) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	w.layers = nil
	return nil
}

// Render draws a header line, the marker grid and a short legend.
func (w *Widget) Render() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return "", ErrClosed
	}

	width, height := w.mount.Size()
	width = max(width, 10)
	// Header and legend take lines from the mount height.
	gridHeight := max(height-2-legendLimit, 3)

	grid := make([][]rune, gridHeight)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(string(glyphEmpty), width))
	}
	grid[gridHeight/2][width/2] = glyphCenter

	counts := make(map[[2]int]int)
	var visible []domain.Marker
	total := 0
	for _, layer := range w.layers {
		for _, m := range layer.markers {
			total++
			col, row, ok := cellOf(m.Position, w.center, w.zoom, width, gridHeight)
			if !ok {
				continue
			}
			cell := [2]int{row, col}
			counts[cell]++
			if counts[cell] == 1 {
				visible = append(visible, m)
			}
			grid[row][col] = markerGlyph(counts[cell])
		}
	}

	var b strings.Builder
	z, x, y := w.CenterTile()
	fmt.Fprintf(&b, "%.5f, %.5f  z%d  tile %d/%d/%d  markers %d/%d", w.center.Lat, w.center.Lng, z, z, x, y, len(visible), total)
	if w.base != nil && w.base.Attribution != "" {
		fmt.Fprintf(&b, "  %s", w.base.Attribution)
	}
	b.WriteByte('\n')

	for _, line := range grid {
		b.WriteString(string(line))
		b.WriteByte('\n')
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Label < visible[j].Label
	})
	for i, m := range visible {
		if i == legendLimit {
			fmt.Fprintf(&b, "… +%d\n", len(visible)-legendLimit)
			break
		}
		fmt.Fprintf(&b, "%c %s (%.5f, %.5f)\n", glyphMarker, m.Label, m.Position.Lat, m.Position.Lng)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// BaseTileURL returns the base layer URL of the centre tile, or "".
func (w *Widget) BaseTileURL() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.base == nil {
		return ""
	}
	z, x, y := w.CenterTile()
	return w.base.TileURL(z, x, y)
}

func markerGlyph(n int) rune {
	switch {
	case n <= 1:
		return glyphMarker
	case n <= 9:
		return rune('0' + n)
	default:
		return glyphMany
	}
}

// MarkerLayer collects markers for one widget.
type MarkerLayer struct {
	widget  *Widget
	markers []domain.Marker
}

// AddMarker appends a marker.
func (l *MarkerLayer) AddMarker(m domain.Marker) error {
	l.widget.mu.Lock()
	defer l.widget.mu.Unlock()
	if l.widget.closed {
		return ErrClosed
	}
	l.markers = append(l.markers, m)
	return nil
}

// Len returns the marker count.
func (l *MarkerLayer) Len() int {
	l.widget.mu.Lock()
	defer l.widget.mu.Unlock()
	return len(l.markers)
}
