// Package terminal provides a MapWidget that draws markers on a character grid.
//
// Positions are projected with Web Mercator at the widget's zoom level, so
// each cell covers a fixed pixel block of the slippy-map tile pyramid the
// base layer addresses.
package terminal
