package domain

import (
	"strconv"
	"strings"
)

// DefaultMapZoom is the zoom level every new map starts at.
const DefaultMapZoom = 14

// VWorldTileTemplate is the base-layer WMTS URL. {key} is the credential.
const VWorldTileTemplate = "https://api.vworld.kr/req/wmts/1.0.0/{key}/Base/{z}/{y}/{x}.png"

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64
	Lng float64
}

// Marker is one point on the marker layer.
type Marker struct {
	Position LatLng
	Label    string
}

// TileLayer describes a raster base layer.
type TileLayer struct {
	// URLTemplate contains {z}, {x} and {y} placeholders.
	URLTemplate string

	// Attribution is shown with the map.
	Attribution string
}

// TileURL expands the template for a tile address.
func (t TileLayer) TileURL(z, x, y int) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	)
	return r.Replace(t.URLTemplate)
}

// NewVWorldLayer returns the VWorld base layer for a credential.
func NewVWorldLayer(key string) TileLayer {
	return TileLayer{
		URLTemplate: strings.ReplaceAll(VWorldTileTemplate, "{key}", key),
		Attribution: "© VWorld",
	}
}

// MapOptions configures a new map widget.
type MapOptions struct {
	Center LatLng
	Zoom   int
}
