package domain

import "time"

// InterventionEvent is the record published to the event stream after each
// applied intervention, pairing the edit with the post-apply hotspot so
// downstream consumers can chart heat development without replaying state.
type InterventionEvent struct {
	Type           InterventionType `json:"type"`
	Lat            float64          `json:"lat"`
	Lon            float64          `json:"lon"`
	X              int              `json:"x"`
	Y              int              `json:"y"`
	AppliedAt      time.Time        `json:"applied_at"`
	Hotspot        Hotspot          `json:"hotspot"`
	CurrentAvgTemp float64          `json:"current_avg_temp"`
}

// NewInterventionEvent builds the event for the latest intervention in snap.
// It returns false when the snapshot carries no history (nothing to publish).
func NewInterventionEvent(snap StateSnapshot) (InterventionEvent, bool) {
	if len(snap.Interventions) == 0 {
		return InterventionEvent{}, false
	}
	last := snap.Interventions[len(snap.Interventions)-1]
	return InterventionEvent{
		Type:           last.Type,
		Lat:            last.Lat,
		Lon:            last.Lon,
		X:              last.X,
		Y:              last.Y,
		AppliedAt:      last.AppliedAt,
		Hotspot:        snap.Hotspot,
		CurrentAvgTemp: snap.CurrentAvgTemp,
	}, true
}
