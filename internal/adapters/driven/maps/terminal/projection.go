package terminal

import (
	"math"

	"github.com/custodia-labs/aptview/internal/core/domain"
)

const (
	tileSize = 256

	// maxLatitude is the Web Mercator cutoff.
	maxLatitude = 85.05112878

	// Pixels per grid cell. Terminal cells are about twice as tall as wide.
	cellWidth  = 8
	cellHeight = 16
)

// worldPixel projects a coordinate to global pixel space at zoom.
func worldPixel(p domain.LatLng, zoom int) (x, y float64) {
	lat := math.Max(-maxLatitude, math.Min(maxLatitude, p.Lat))
	scale := tileSize * math.Exp2(float64(zoom))
	sin := math.Sin(lat * math.Pi / 180)

	x = (p.Lng + 180) / 360 * scale
	y = (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * scale
	return x, y
}

// tileOf returns the tile address containing p at zoom.
func tileOf(p domain.LatLng, zoom int) (x, y int) {
	px, py := worldPixel(p, zoom)
	n := int(math.Exp2(float64(zoom)))
	x = clamp(int(math.Floor(px/tileSize)), 0, n-1)
	y = clamp(int(math.Floor(py/tileSize)), 0, n-1)
	return x, y
}

// cellOf returns the grid cell of p in a width x height grid centred on center.
// ok is false when p falls outside the grid.
func cellOf(p, center domain.LatLng, zoom, width, height int) (col, row int, ok bool) {
	px, py := worldPixel(p, zoom)
	cx, cy := worldPixel(center, zoom)

	col = width/2 + int(math.Floor((px-cx)/cellWidth+0.5))
	row = height/2 + int(math.Floor((py-cy)/cellHeight+0.5))
	ok = col >= 0 && col < width && row >= 0 && row < height
	return col, row, ok
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
