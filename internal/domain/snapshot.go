package domain

import "math"

// TemperaturePoint is a sampled cell serialized as [lat, lon, °C].
type TemperaturePoint [3]float64

// WindPoint is a sampled cell serialized as [lat, lon, u, v, magnitude].
type WindPoint [5]float64

// Hotspot is the single hottest cell of the current temperature field.
type Hotspot struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Temp float64 `json:"temp"`
}

// StateSnapshot is the serializable view of the simulation handed to the
// transport layer. Building one never mutates simulator state.
type StateSnapshot struct {
	TemperatureData []TemperaturePoint `json:"temperature_data"`
	WindData        []WindPoint        `json:"wind_data"`
	Hotspot         Hotspot            `json:"hotspot"`
	BaseTemp        float64            `json:"base_temp"`
	CurrentAvgTemp  float64            `json:"current_avg_temp"`
	Interventions   []Intervention     `json:"interventions"`
}

// snapshotLocked samples the current fields. Callers hold s.mu.
func (s *Simulator) snapshotLocked() StateSnapshot {
	w, h := s.currentTemp.Width, s.currentTemp.Height

	sampled := ((w + s.stride - 1) / s.stride) * ((h + s.stride - 1) / s.stride)
	temps := make([]TemperaturePoint, 0, sampled)
	winds := make([]WindPoint, 0, sampled)

	for x := 0; x < w; x += s.stride {
		for y := 0; y < h; y += s.stride {
			lat, lon := s.proj.GridToGeo(x, y)
			temps = append(temps, TemperaturePoint{lat, lon, s.currentTemp.At(x, y)})

			u, v := s.currentWindU.At(x, y), s.currentWindV.At(x, y)
			winds = append(winds, WindPoint{lat, lon, u, v, math.Hypot(u, v)})
		}
	}

	hx, hy, hottest := s.currentTemp.Max()
	hotLat, hotLon := s.proj.GridToGeo(hx, hy)

	history := make([]Intervention, len(s.history))
	copy(history, s.history)

	return StateSnapshot{
		TemperatureData: temps,
		WindData:        winds,
		Hotspot:         Hotspot{Lat: hotLat, Lon: hotLon, Temp: hottest},
		BaseTemp:        s.baseTemp.Mean(),
		CurrentAvgTemp:  s.currentTemp.Mean(),
		Interventions:   history,
	}
}
