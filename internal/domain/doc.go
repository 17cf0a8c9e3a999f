// Package domain implements the urban climate what-if model for the
// Neukölln/Kreuzberg demo area.
//
// # Model
//
// The neighborhood is a fixed W×H cell grid (default 50×50, ~100 m per cell)
// centered on a configured coordinate. Each cell carries a temperature in °C
// and a wind vector (u: west→east, v: south→north, m/s). Base fields are
// uniform mock values standing in for an ERA5 extract; they are frozen at
// construction and never mutated. All edits go through the current fields.
//
// # Interventions
//
// A caller places one of six intervention types at a coordinate. Temperature
// coefficients, applied at the resolved cell:
//
//	ADD_PARK        -2.0   cooling
//	ADD_WATER       -3.0   strong cooling
//	REMOVE_ASPHALT  +1.0   reduced urban-heat-island effect
//	ADD_ASPHALT     +2.5   heating
//	ADD_BUILDING    +1.5   buildings store heat
//	REMOVE_BUILDING  none
//
// The delta also spreads to the 5×5 neighborhood around the cell, scaled by
// 1/(1+dx²+dy²) and halved. Effects accumulate across repeated interventions;
// nothing is idempotent. Offsets falling outside the grid are skipped.
//
// ADD_BUILDING additionally halves wind speed in up to three cells downwind
// of the building (wind shadow) and amplifies it by 1.3× in up to four cells
// perpendicular to the flow (channeling). Wind below 0.1 m/s has no usable
// direction and produces neither effect.
//
// # Known approximations
//
// REMOVE_BUILDING restores base wind in the shadow cells computed from the
// cell's *base* wind vector. It does not track which building caused which
// effect and never undoes channel amplification, so remove-after-add is not
// an exact inverse. The asymmetry is intentional; see [Simulator.Apply].
//
// Coordinate resolution clamps out-of-area positions to the nearest edge
// cell instead of failing, so the core has no error paths: every operation
// is a bounded, synchronous, in-memory computation. Intervention type
// membership is validated at the transport boundary, not here.
package domain
