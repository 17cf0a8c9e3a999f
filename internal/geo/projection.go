// Package geo maps WGS-84 coordinates onto the discrete simulation grids.
//
// Two parametrizations exist: MetricProjection places a grid around a center
// point using a fixed cell edge length in meters (the climate grid), while
// BoundsProjection stretches a grid across a lat/lon bounding box (the relief
// grid). Both follow the same contract: GeoToGrid truncates the fractional
// cell position and clamps to the grid, so out-of-area coordinates collapse
// silently to the nearest edge cell; GridToGeo returns the cell's reference
// corner and is the algebraic inverse up to that truncation.
package geo

import "math"

// metersPerDegree is the approximate length of one degree of latitude.
const metersPerDegree = 111000.0

// truncEpsilon absorbs floating-point noise before truncation so that
// GeoToGrid(GridToGeo(x, y)) lands back on (x, y) for every valid cell.
const truncEpsilon = 1e-9

// MetricProjection maps coordinates near a center point onto a grid with a
// fixed cell edge length in meters. Longitude distances are scaled by the
// cosine of the center latitude.
type MetricProjection struct {
	CenterLat    float64
	CenterLon    float64
	Width        int
	Height       int
	CellSizeM    float64
	cosCenterLat float64
}

// NewMetricProjection builds a projection centered on (centerLat, centerLon)
// with width×height cells of cellSizeM meters each.
func NewMetricProjection(centerLat, centerLon float64, width, height int, cellSizeM float64) MetricProjection {
	return MetricProjection{
		CenterLat:    centerLat,
		CenterLon:    centerLon,
		Width:        width,
		Height:       height,
		CellSizeM:    cellSizeM,
		cosCenterLat: math.Cos(centerLat * math.Pi / 180),
	}
}

// GeoToGrid resolves a coordinate to a grid cell, clamping to the edges.
func (p MetricProjection) GeoToGrid(lat, lon float64) (int, int) {
	latOffsetM := (lat - p.CenterLat) * metersPerDegree
	lonOffsetM := (lon - p.CenterLon) * metersPerDegree * p.cosCenterLat

	x := truncate(float64(p.Width)/2 + lonOffsetM/p.CellSizeM)
	y := truncate(float64(p.Height)/2 + latOffsetM/p.CellSizeM)

	return clamp(x, p.Width), clamp(y, p.Height)
}

// GridToGeo returns the coordinate of the cell's reference corner.
func (p MetricProjection) GridToGeo(x, y int) (lat, lon float64) {
	lonOffsetM := (float64(x) - float64(p.Width)/2) * p.CellSizeM
	latOffsetM := (float64(y) - float64(p.Height)/2) * p.CellSizeM

	lat = p.CenterLat + latOffsetM/metersPerDegree
	lon = p.CenterLon + lonOffsetM/(metersPerDegree*p.cosCenterLat)
	return lat, lon
}

// BoundsProjection maps a lat/lon bounding box onto a grid. South/west edges
// correspond to cell (0, 0).
type BoundsProjection struct {
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
	Width  int
	Height int
}

// GeoToGrid resolves a coordinate to a grid cell, clamping to the edges.
func (p BoundsProjection) GeoToGrid(lat, lon float64) (int, int) {
	x := truncate((lon - p.LonMin) / (p.LonMax - p.LonMin) * float64(p.Width))
	y := truncate((lat - p.LatMin) / (p.LatMax - p.LatMin) * float64(p.Height))

	return clamp(x, p.Width), clamp(y, p.Height)
}

// GridToGeo returns the coordinate of the cell's reference corner.
func (p BoundsProjection) GridToGeo(x, y int) (lat, lon float64) {
	lat = p.LatMin + float64(y)/float64(p.Height)*(p.LatMax-p.LatMin)
	lon = p.LonMin + float64(x)/float64(p.Width)*(p.LonMax-p.LonMin)
	return lat, lon
}

func truncate(v float64) int {
	return int(math.Floor(v + truncEpsilon))
}

func clamp(v, size int) int {
	if v < 0 {
		return 0
	}
	if v > size-1 {
		return size - 1
	}
	return v
}
