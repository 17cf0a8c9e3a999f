package domain

import (
	"math"
	"sync"

	"github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/geo"
)

// minWindSpeed is the magnitude below which wind has no usable direction.
// Shadow and channel effects are skipped, not rejected.
const minWindSpeed = 0.1

// propagationFactor halves the damped delta spread to neighboring cells.
const propagationFactor = 0.5

const (
	windShadowFactor  = 0.5
	windChannelFactor = 1.3
)

// GridParams configures the simulation grid and its uniform base fields.
type GridParams struct {
	Width     int
	Height    int
	CenterLat float64
	CenterLon float64
	CellSizeM float64

	BaseTemp  float64 // °C
	BaseWindU float64 // m/s, west→east
	BaseWindV float64 // m/s, south→north

	SampleStride int
}

// DefaultGridParams returns the Neukölln/Kreuzberg demo configuration:
// a 50×50 grid of 100 m cells at 30 °C with a light south-westerly flow.
func DefaultGridParams() GridParams {
	return GridParams{
		Width:        50,
		Height:       50,
		CenterLat:    52.48,
		CenterLon:    13.43,
		CellSizeM:    100,
		BaseTemp:     30.0,
		BaseWindU:    2.0,
		BaseWindV:    1.0,
		SampleStride: 2,
	}
}

// Simulator owns the climate fields and the intervention history. It is the
// single shared instance for the process; a mutex serializes each
// intervention+read cycle because Apply touches many cells non-atomically.
type Simulator struct {
	mu   sync.Mutex
	proj geo.MetricProjection

	baseTemp  *Field
	baseWindU *Field
	baseWindV *Field

	currentTemp  *Field
	currentWindU *Field
	currentWindV *Field

	history []Intervention
	stride  int
}

// NewSimulator builds a simulator with uniform base fields. The base fields
// are never written again; current fields start as independent copies.
func NewSimulator(p GridParams) *Simulator {
	s := &Simulator{
		proj:      geo.NewMetricProjection(p.CenterLat, p.CenterLon, p.Width, p.Height, p.CellSizeM),
		baseTemp:  NewField(p.Width, p.Height, p.BaseTemp),
		baseWindU: NewField(p.Width, p.Height, p.BaseWindU),
		baseWindV: NewField(p.Width, p.Height, p.BaseWindV),
		history:   []Intervention{},
		stride:    p.SampleStride,
	}
	s.currentTemp = s.baseTemp.Clone()
	s.currentWindU = s.baseWindU.Clone()
	s.currentWindV = s.baseWindV.Clone()
	return s
}

// Projection exposes the grid's coordinate mapping.
func (s *Simulator) Projection() geo.MetricProjection {
	return s.proj
}

// Apply places an intervention at (lat, lon), mutates the current fields, and
// returns the resulting state. Out-of-area coordinates clamp to the nearest
// edge cell. The caller has already validated the type.
func (s *Simulator) Apply(t InterventionType, lat, lon float64) StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	x, y := s.proj.GeoToGrid(lat, lon)

	s.history = append(s.history, Intervention{
		Type:      t,
		Lat:       lat,
		Lon:       lon,
		X:         x,
		Y:         y,
		AppliedAt: clock.Now().UTC(),
	})

	if delta, ok := t.TempDelta(); ok {
		s.currentTemp.Add(x, y, delta)
		s.propagateTempDelta(x, y, delta)
	}

	switch t {
	case AddBuilding:
		u, v := s.currentWindU.At(x, y), s.currentWindV.At(x, y)
		for _, off := range windShadowOffsets(u, v) {
			if nx, ny := x+off.dx, y+off.dy; s.currentWindU.In(nx, ny) {
				s.currentWindU.Scale(nx, ny, windShadowFactor)
				s.currentWindV.Scale(nx, ny, windShadowFactor)
			}
		}
		for _, off := range windChannelOffsets(u, v) {
			if nx, ny := x+off.dx, y+off.dy; s.currentWindU.In(nx, ny) {
				s.currentWindU.Scale(nx, ny, windChannelFactor)
				s.currentWindV.Scale(nx, ny, windChannelFactor)
			}
		}
	case RemoveBuilding:
		// Approximate undo: recompute the shadow from the cell's base wind
		// and restore base values there. Channel cells stay amplified and
		// no specific prior building is consulted.
		u, v := s.baseWindU.At(x, y), s.baseWindV.At(x, y)
		for _, off := range windShadowOffsets(u, v) {
			if nx, ny := x+off.dx, y+off.dy; s.currentWindU.In(nx, ny) {
				s.currentWindU.Set(nx, ny, s.baseWindU.At(nx, ny))
				s.currentWindV.Set(nx, ny, s.baseWindV.At(nx, ny))
			}
		}
	}

	return s.snapshotLocked()
}

// Reset restores the current fields to the base state and clears the
// intervention history.
func (s *Simulator) Reset() StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentTemp.CopyFrom(s.baseTemp)
	s.currentWindU.CopyFrom(s.baseWindU)
	s.currentWindV.CopyFrom(s.baseWindV)
	s.history = []Intervention{}

	return s.snapshotLocked()
}

// Snapshot returns the current state without mutating anything.
func (s *Simulator) Snapshot() StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// propagateTempDelta spreads a damped fraction of delta across the 5×5
// neighborhood of (cx, cy), center excluded. Cells outside the grid are
// skipped; there is no wraparound.
func (s *Simulator) propagateTempDelta(cx, cy int, delta float64) {
	for dx := -2; dx <= 2; dx++ {
		for dy := -2; dy <= 2; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := cx+dx, cy+dy
			if !s.currentTemp.In(nx, ny) {
				continue
			}
			damping := 1.0 / float64(1+dx*dx+dy*dy)
			s.currentTemp.Add(nx, ny, delta*damping*propagationFactor)
		}
	}
}

type cellOffset struct {
	dx, dy int
}

// windShadowOffsets returns up to three cell offsets downwind of a building,
// at rounded unit-vector multiples opposite the wind direction.
func windShadowOffsets(u, v float64) []cellOffset {
	mag := math.Hypot(u, v)
	if mag < minWindSpeed {
		return nil
	}

	dirX, dirY := -u/mag, -v/mag

	offsets := make([]cellOffset, 0, 3)
	for dist := 1.0; dist <= 3; dist++ {
		offsets = append(offsets, cellOffset{
			dx: int(math.Round(dirX * dist)),
			dy: int(math.Round(dirY * dist)),
		})
	}
	return offsets
}

// windChannelOffsets returns up to four cell offsets perpendicular to the
// wind, two on each side at distances 1 and 2.
func windChannelOffsets(u, v float64) []cellOffset {
	mag := math.Hypot(u, v)
	if mag < minWindSpeed {
		return nil
	}

	perpX, perpY := -v/mag, u/mag

	offsets := make([]cellOffset, 0, 4)
	for dist := 1.0; dist <= 2; dist++ {
		offsets = append(offsets,
			cellOffset{dx: int(math.Round(perpX * dist)), dy: int(math.Round(perpY * dist))},
			cellOffset{dx: int(math.Round(-perpX * dist)), dy: int(math.Round(-perpY * dist))},
		)
	}
	return offsets
}
