package http

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/domain"
)

// interveneRequest is the wire form of an intervention.
type interveneRequest struct {
	Type string   `json:"type"`
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sim.Snapshot())
}

func (s *Server) handleIntervene(w http.ResponseWriter, r *http.Request) {
	var req interveneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Type == "" || req.Lat == nil || req.Lon == nil {
		writeError(w, http.StatusBadRequest, "missing required fields: type, lat, lon")
		return
	}

	ivType := domain.InterventionType(req.Type)
	if !ivType.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid intervention type %q", req.Type))
		return
	}

	lat, lon := *req.Lat, *req.Lon
	if !isFinite(lat) || !isFinite(lon) {
		writeError(w, http.StatusBadRequest, "lat and lon must be finite numbers")
		return
	}

	if !s.limiter.Allow() {
		s.metrics.InterventionsThrottled.Inc()
		writeError(w, http.StatusTooManyRequests, "intervention rate limit exceeded")
		return
	}

	start := time.Now()
	snap := s.sim.Apply(ivType, lat, lon)
	s.metrics.ApplyDuration.Observe(time.Since(start).Seconds())
	s.metrics.InterventionsApplied.WithLabelValues(req.Type).Inc()
	s.observeSnapshot(snap)

	s.publishEvent(r, snap)

	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	snap := s.sim.Reset()
	s.metrics.SimulationResets.Inc()
	s.observeSnapshot(snap)

	writeJSON(w, http.StatusOK, snap)
}

// publishEvent pushes the applied intervention to the event stream.
// Publishing is best-effort: failures are logged and counted, never
// surfaced to the caller.
func (s *Server) publishEvent(r *http.Request, snap domain.StateSnapshot) {
	if s.publisher == nil {
		return
	}
	event, ok := domain.NewInterventionEvent(snap)
	if !ok {
		return
	}
	if err := s.publisher.Publish(r.Context(), event); err != nil {
		s.metrics.EventPublishErrors.Inc()
		s.logger.Warn("intervention event publish failed", "type", event.Type, "error", err)
		return
	}
	s.metrics.EventsPublished.Inc()
}

func (s *Server) observeSnapshot(snap domain.StateSnapshot) {
	s.metrics.CurrentAvgTemp.Set(snap.CurrentAvgTemp)
	s.metrics.HotspotTemp.Set(snap.Hotspot.Temp)
}

func (s *Server) handleElevation(w http.ResponseWriter, r *http.Request) {
	stride, err := queryInt(r, "sample_rate", 2)
	if err != nil || stride < 1 {
		writeError(w, http.StatusBadRequest, "sample_rate must be a positive integer")
		return
	}
	s.metrics.ReliefRequests.WithLabelValues("elevation").Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"elevation_data": slices.Collect(s.surface.Samples(stride)),
		"bounds":         s.surface.Bounds(),
	})
}

func (s *Server) handleHillshade(w http.ResponseWriter, r *http.Request) {
	stride, err := queryInt(r, "sample_rate", 2)
	if err != nil || stride < 1 {
		writeError(w, http.StatusBadRequest, "sample_rate must be a positive integer")
		return
	}
	azimuth, err := queryFloat(r, "azimuth", 315.0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "azimuth must be a number")
		return
	}
	altitude, err := queryFloat(r, "altitude", 45.0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "altitude must be a number")
		return
	}
	s.metrics.ReliefRequests.WithLabelValues("hillshade").Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"hillshade_data": s.surface.Hillshade(stride, azimuth, altitude),
	})
}

func (s *Server) handleContours(w http.ResponseWriter, r *http.Request) {
	var levels []float64
	if raw := r.URL.Query().Get("levels"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			level, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "levels must be a comma-separated list of numbers")
				return
			}
			levels = append(levels, level)
		}
	}
	s.metrics.ReliefRequests.WithLabelValues("contours").Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"contours": s.surface.Contours(levels),
	})
}

func (s *Server) handleElevationAt(w http.ResponseWriter, r *http.Request) {
	lat, errLat := requiredFloat(r, "lat")
	lon, errLon := requiredFloat(r, "lon")
	if errLat != nil || errLon != nil || !isFinite(lat) || !isFinite(lon) {
		writeError(w, http.StatusBadRequest, "lat and lon must be finite numbers")
		return
	}
	s.metrics.ReliefRequests.WithLabelValues("elevation_at").Inc()

	writeJSON(w, http.StatusOK, map[string]float64{
		"lat":       lat,
		"lon":       lon,
		"elevation": s.surface.ElevationAt(lat, lon),
	})
}

func (s *Server) handleBounds(w http.ResponseWriter, _ *http.Request) {
	s.metrics.ReliefRequests.WithLabelValues("bounds").Inc()
	writeJSON(w, http.StatusOK, s.surface.Bounds())
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func queryFloat(r *http.Request, key string, def float64) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func requiredFloat(r *http.Request, key string) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", key)
	}
	return strconv.ParseFloat(raw, 64)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
