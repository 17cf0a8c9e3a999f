package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_SamplesEveryStrideCell(t *testing.T) {
	s := newTestSimulator()

	snap := s.Snapshot()

	// 50×50 grid at stride 2 → 25×25 samples.
	assert.Len(t, snap.TemperatureData, 625)
	assert.Len(t, snap.WindData, 625)
}

func TestSnapshot_WindMagnitudeMatchesComponents(t *testing.T) {
	s := newTestSimulator()
	s.Apply(AddBuilding, 52.48, 13.43)
	s.Apply(AddBuilding, 52.482, 13.426)

	snap := s.Snapshot()

	for _, p := range snap.WindData {
		u, v, mag := p[2], p[3], p[4]
		assert.InDelta(t, math.Sqrt(u*u+v*v), mag, 1e-12)
	}
}

func TestSnapshot_HotspotFollowsHeating(t *testing.T) {
	s := newTestSimulator()

	snap := s.Apply(AddAsphalt, 52.478, 13.434)

	require.Len(t, snap.Interventions, 1)
	iv := snap.Interventions[0]
	wantLat, wantLon := s.proj.GridToGeo(iv.X, iv.Y)

	assert.InDelta(t, wantLat, snap.Hotspot.Lat, 1e-12)
	assert.InDelta(t, wantLon, snap.Hotspot.Lon, 1e-12)
	assert.InDelta(t, 32.5, snap.Hotspot.Temp, 1e-9)
}

func TestSnapshot_HotspotTieBreaksToLowestIndex(t *testing.T) {
	s := newTestSimulator()

	// Uniform field: every cell ties, so the first flattened cell wins.
	snap := s.Snapshot()

	wantLat, wantLon := s.proj.GridToGeo(0, 0)
	assert.InDelta(t, wantLat, snap.Hotspot.Lat, 1e-12)
	assert.InDelta(t, wantLon, snap.Hotspot.Lon, 1e-12)
	assert.Equal(t, 30.0, snap.Hotspot.Temp)
}

func TestSnapshot_IsPureRead(t *testing.T) {
	s := newTestSimulator()
	s.Apply(AddPark, 52.48, 13.43)

	before := s.Snapshot()
	after := s.Snapshot()

	assert.Equal(t, before, after)
}

func TestSnapshot_HistoryIsDetachedCopy(t *testing.T) {
	s := newTestSimulator()
	snap := s.Apply(AddPark, 52.48, 13.43)

	s.Apply(AddWater, 52.481, 13.429)

	assert.Len(t, snap.Interventions, 1, "earlier snapshot must not grow")
}

func TestSnapshot_WireFormat(t *testing.T) {
	s := newTestSimulator()
	snap := s.Apply(AddPark, 52.48, 13.43)

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, key := range []string{"temperature_data", "wind_data", "hotspot", "base_temp", "current_avg_temp", "interventions"} {
		assert.Contains(t, decoded, key)
	}

	var temps [][]float64
	require.NoError(t, json.Unmarshal(decoded["temperature_data"], &temps))
	assert.Len(t, temps[0], 3, "temperature points serialize as [lat, lon, temp]")

	var winds [][]float64
	require.NoError(t, json.Unmarshal(decoded["wind_data"], &winds))
	assert.Len(t, winds[0], 5, "wind points serialize as [lat, lon, u, v, magnitude]")
}

func TestNewInterventionEvent(t *testing.T) {
	s := newTestSimulator()

	_, ok := NewInterventionEvent(s.Snapshot())
	assert.False(t, ok, "no history, nothing to publish")

	snap := s.Apply(AddWater, 52.48, 13.43)
	event, ok := NewInterventionEvent(snap)
	require.True(t, ok)
	assert.Equal(t, AddWater, event.Type)
	assert.Equal(t, 25, event.X)
	assert.Equal(t, 25, event.Y)
	assert.Equal(t, snap.Hotspot, event.Hotspot)
	assert.Equal(t, snap.CurrentAvgTemp, event.CurrentAvgTemp)
}
