package domain

import "time"

// InterventionType identifies one of the six supported map edits.
type InterventionType string

const (
	AddPark        InterventionType = "ADD_PARK"
	AddWater       InterventionType = "ADD_WATER"
	RemoveAsphalt  InterventionType = "REMOVE_ASPHALT"
	AddAsphalt     InterventionType = "ADD_ASPHALT"
	AddBuilding    InterventionType = "ADD_BUILDING"
	RemoveBuilding InterventionType = "REMOVE_BUILDING"
)

// tempDeltas holds the per-type temperature coefficient in °C. Types without
// an entry (REMOVE_BUILDING) leave temperature untouched.
var tempDeltas = map[InterventionType]float64{
	AddPark:       -2.0,
	AddWater:      -3.0,
	RemoveAsphalt: 1.0,
	AddAsphalt:    2.5,
	AddBuilding:   1.5,
}

// TempDelta returns the temperature coefficient for the type, and whether
// the type has one.
func (t InterventionType) TempDelta() (float64, bool) {
	delta, ok := tempDeltas[t]
	return delta, ok
}

// Valid reports whether t is one of the six supported types. Used by the
// transport boundary; the simulator itself does not re-check membership.
func (t InterventionType) Valid() bool {
	switch t {
	case AddPark, AddWater, RemoveAsphalt, AddAsphalt, AddBuilding, RemoveBuilding:
		return true
	}
	return false
}

// Intervention records one applied map edit. Interventions are immutable and
// accumulate in an append-only history that only Reset clears.
type Intervention struct {
	Type      InterventionType `json:"type"`
	Lat       float64          `json:"lat"`
	Lon       float64          `json:"lon"`
	X         int              `json:"x"`
	Y         int              `json:"y"`
	AppliedAt time.Time        `json:"applied_at"`
}
