// Package relief generates and serves the static synthetic elevation surface
// for the demo area. Real DEM ingestion (e.g. Copernicus tiles) is out of
// scope; the surface mimics the Neukölln/Kreuzberg profile: a gently rising
// plain around 38 m with river and canal depressions, seeded roughness, and
// the raised Tempelhof plateau. The grid is built once and never mutated, so
// reads need no locking.
package relief

import (
	"iter"
	"math"
	"math/rand/v2"

	"github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/geo"
)

// minElevation floors the surface; the area sits above sea level everywhere.
const minElevation = 25.0

// smoothingWindow is the width of the moving-average filter applied to the
// roughness term. The filter runs over the flattened grid, so a little
// bleed across row boundaries is expected and harmless at this fidelity.
const smoothingWindow = 9

// Params configures the synthetic surface.
type Params struct {
	Width  int
	Height int

	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64

	Seed uint64
}

// DefaultParams covers roughly 5 km × 5 km of Neukölln/Kreuzberg on a
// 100×100 grid.
func DefaultParams() Params {
	return Params{
		Width:  100,
		Height: 100,
		LatMin: 52.45,
		LatMax: 52.51,
		LonMin: 13.38,
		LonMax: 13.48,
		Seed:   42,
	}
}

// Surface holds the immutable elevation grid in meters, stored y-major
// (index y*Width+x).
type Surface struct {
	proj      geo.BoundsProjection
	width     int
	height    int
	elevation []float64
	minElev   float64
	maxElev   float64
}

// ElevationPoint is a sampled cell serialized as [lat, lon, meters].
type ElevationPoint [3]float64

// ShadePoint is a sampled cell serialized as [lat, lon, shade 0-255].
type ShadePoint [3]float64

// Bounds describes the geographic extent and the elevation range of the
// surface.
type Bounds struct {
	North        float64 `json:"north"`
	South        float64 `json:"south"`
	East         float64 `json:"east"`
	West         float64 `json:"west"`
	MinElevation float64 `json:"min_elevation"`
	MaxElevation float64 `json:"max_elevation"`
}

// NewSurface generates the elevation grid. Identical params produce an
// identical surface.
func NewSurface(p Params) *Surface {
	s := &Surface{
		proj: geo.BoundsProjection{
			LatMin: p.LatMin, LatMax: p.LatMax,
			LonMin: p.LonMin, LonMax: p.LonMax,
			Width: p.Width, Height: p.Height,
		},
		width:  p.Width,
		height: p.Height,
	}
	s.elevation = generate(p)

	s.minElev = math.Inf(1)
	s.maxElev = math.Inf(-1)
	for _, e := range s.elevation {
		s.minElev = math.Min(s.minElev, e)
		s.maxElev = math.Max(s.maxElev, e)
	}
	return s
}

// generate composes the surface over a normalized [0,1]×[0,1] space:
// base constant, north-east slope, Gaussian depressions for the Spree and
// two canals, smoothed seeded roughness, and the Tempelhof bump, floored at
// minElevation.
func generate(p Params) []float64 {
	const baseElevation = 38.0

	w, h := p.Width, p.Height
	elevation := make([]float64, w*h)

	rough := roughness(p.Seed, w*h)

	for y := 0; y < h; y++ {
		ny := float64(y) / float64(h-1)
		for x := 0; x < w; x++ {
			nx := float64(x) / float64(w-1)

			slope := 5.0 * (nx*0.3 + ny*0.7)
			spree := -8.0 * math.Exp(-(sq(nx-0.3)+sq(ny-0.5))/0.1)
			canal1 := -3.0 * math.Exp(-sq(nx-0.6)/0.05)
			canal2 := -3.0 * math.Exp(-sq(ny-0.3)/0.05)
			tempelhof := 3.0 * math.Exp(-(sq(nx-0.5)+sq(ny-0.7))/0.15)

			e := baseElevation + slope + spree + canal1 + canal2 + rough[y*w+x] + tempelhof
			elevation[y*w+x] = math.Max(e, minElevation)
		}
	}
	return elevation
}

// roughness returns n smoothed pseudo-random offsets in roughly ±2 m.
func roughness(seed uint64, n int) []float64 {
	rng := rand.New(rand.NewPCG(seed, 0))

	raw := make([]float64, n)
	for i := range raw {
		raw[i] = 4.0 * (rng.Float64() - 0.5)
	}

	// Centered moving average with zero padding at the edges.
	half := smoothingWindow / 2
	smoothed := make([]float64, n)
	for i := range smoothed {
		var sum float64
		for j := i - half; j <= i+half; j++ {
			if j >= 0 && j < n {
				sum += raw[j]
			}
		}
		smoothed[i] = sum / smoothingWindow
	}
	return smoothed
}

// ElevationAt returns the nearest-cell elevation for a coordinate. No
// interpolation; out-of-area coordinates clamp to the edge cell.
func (s *Surface) ElevationAt(lat, lon float64) float64 {
	x, y := s.proj.GeoToGrid(lat, lon)
	return s.at(x, y)
}

// Samples yields every stride-th cell as (lat, lon, elevation). The sequence
// is finite and can be iterated more than once.
func (s *Surface) Samples(stride int) iter.Seq[ElevationPoint] {
	stride = sanitizeStride(stride)
	return func(yield func(ElevationPoint) bool) {
		for y := 0; y < s.height; y += stride {
			for x := 0; x < s.width; x += stride {
				lat, lon := s.proj.GridToGeo(x, y)
				if !yield(ElevationPoint{lat, lon, s.at(x, y)}) {
					return
				}
			}
		}
	}
}

// Hillshade computes Lambertian shaded relief for a light source at the
// given azimuth and altitude (degrees), sampled at the same stride as
// Samples. Values are normalized to [0, 255].
func (s *Surface) Hillshade(stride int, azimuthDeg, altitudeDeg float64) []ShadePoint {
	stride = sanitizeStride(stride)

	gradX, gradY := s.gradient()
	azimuth := azimuthDeg * math.Pi / 180
	altitude := altitudeDeg * math.Pi / 180

	points := make([]ShadePoint, 0, (s.width/stride+1)*(s.height/stride+1))
	for y := 0; y < s.height; y += stride {
		for x := 0; x < s.width; x += stride {
			gx, gy := gradX[y*s.width+x], gradY[y*s.width+x]

			slope := math.Atan(math.Hypot(gx, gy))
			aspect := math.Atan2(-gx, gy)

			shade := math.Sin(altitude)*math.Sin(slope) +
				math.Cos(altitude)*math.Cos(slope)*math.Cos(azimuth-aspect)

			shade = (shade + 1) / 2 * 255
			shade = math.Min(math.Max(shade, 0), 255)

			lat, lon := s.proj.GridToGeo(x, y)
			points = append(points, ShadePoint{lat, lon, shade})
		}
	}
	return points
}

// Bounds returns the fixed geographic bounding box and the surface's global
// elevation range.
func (s *Surface) Bounds() Bounds {
	return Bounds{
		North:        s.proj.LatMax,
		South:        s.proj.LatMin,
		East:         s.proj.LonMax,
		West:         s.proj.LonMin,
		MinElevation: s.minElev,
		MaxElevation: s.maxElev,
	}
}

// gradient returns central-difference gradients along x and y, with
// one-sided differences at the edges.
func (s *Surface) gradient() (gradX, gradY []float64) {
	w, h := s.width, s.height
	gradX = make([]float64, w*h)
	gradY = make([]float64, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case x == 0:
				gradX[y*w+x] = s.at(1, y) - s.at(0, y)
			case x == w-1:
				gradX[y*w+x] = s.at(w-1, y) - s.at(w-2, y)
			default:
				gradX[y*w+x] = (s.at(x+1, y) - s.at(x-1, y)) / 2
			}

			switch {
			case y == 0:
				gradY[y*w+x] = s.at(x, 1) - s.at(x, 0)
			case y == h-1:
				gradY[y*w+x] = s.at(x, h-1) - s.at(x, h-2)
			default:
				gradY[y*w+x] = (s.at(x, y+1) - s.at(x, y-1)) / 2
			}
		}
	}
	return gradX, gradY
}

func (s *Surface) at(x, y int) float64 {
	return s.elevation[y*s.width+x]
}

func sanitizeStride(stride int) int {
	if stride < 1 {
		return 1
	}
	return stride
}

func sq(v float64) float64 { return v * v }
