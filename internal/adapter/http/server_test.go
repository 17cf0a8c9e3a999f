package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	httpadapter "github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/adapter/http"
	"github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/domain"
	"github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/observability"
	"github.com/henniphilo/Skyforge-Cassini-Hackathon/internal/relief"
)

type mockPublisher struct {
	events []domain.InterventionEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, event domain.InterventionEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(pub httpadapter.EventPublisher, limiter *rate.Limiter) *httpadapter.Server {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return httpadapter.NewServer(":0", httpadapter.Deps{
		Simulator: domain.NewSimulator(domain.DefaultGridParams()),
		Relief:    relief.NewSurface(relief.DefaultParams()),
		Publisher: pub,
		Limiter:   limiter,
		Metrics:   observability.NewMetricsForTesting(),
		Logger:    discardLogger(),
	})
}

func doJSON(t *testing.T, srv *httpadapter.Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestIntervene_AppliesAndReturnsSnapshot(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/intervene",
		`{"type":"ADD_PARK","lat":52.48,"lon":13.43}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var snap domain.StateSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Len(t, snap.Interventions, 1)
	assert.Equal(t, domain.AddPark, snap.Interventions[0].Type)
	assert.Equal(t, 25, snap.Interventions[0].X)
	assert.Equal(t, 30.0, snap.BaseTemp)
	assert.Less(t, snap.CurrentAvgTemp, snap.BaseTemp, "a park cools the area")
}

func TestIntervene_RejectsUnknownType(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/intervene",
		`{"type":"ADD_VOLCANO","lat":52.48,"lon":13.43}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ADD_VOLCANO")
}

func TestIntervene_RejectsMissingFields(t *testing.T) {
	srv := newTestServer(nil, nil)

	for _, body := range []string{
		`{}`,
		`{"type":"ADD_PARK"}`,
		`{"type":"ADD_PARK","lat":52.48}`,
		`{"lat":52.48,"lon":13.43}`,
		`not json at all`,
	} {
		rec := doJSON(t, srv, http.MethodPost, "/api/intervene", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestIntervene_RateLimited(t *testing.T) {
	srv := newTestServer(nil, rate.NewLimiter(rate.Limit(0.001), 1))

	body := `{"type":"ADD_WATER","lat":52.48,"lon":13.43}`

	first := doJSON(t, srv, http.MethodPost, "/api/intervene", body)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, srv, http.MethodPost, "/api/intervene", body)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestIntervene_PublishesEvent(t *testing.T) {
	pub := &mockPublisher{}
	srv := newTestServer(pub, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/intervene",
		`{"type":"ADD_BUILDING","lat":52.48,"lon":13.43}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.AddBuilding, pub.events[0].Type)
	assert.Equal(t, 25, pub.events[0].X)
}

func TestIntervene_PublishFailureDoesNotFailRequest(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker down")}
	srv := newTestServer(pub, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/intervene",
		`{"type":"ADD_PARK","lat":52.48,"lon":13.43}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReset_ClearsState(t *testing.T) {
	srv := newTestServer(nil, nil)

	doJSON(t, srv, http.MethodPost, "/api/intervene",
		`{"type":"ADD_ASPHALT","lat":52.48,"lon":13.43}`)
	rec := doJSON(t, srv, http.MethodPost, "/api/reset", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var snap domain.StateSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Empty(t, snap.Interventions)
	assert.Equal(t, snap.BaseTemp, snap.CurrentAvgTemp)
}

func TestState_ReturnsSnapshot(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/state", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var snap domain.StateSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.NotEmpty(t, snap.TemperatureData)
	assert.NotEmpty(t, snap.WindData)
}

func TestElevation_ReturnsDataAndBounds(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/relief/elevation?sample_rate=4", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ElevationData [][]float64   `json:"elevation_data"`
		Bounds        relief.Bounds `json:"bounds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.ElevationData, 625)
	assert.Equal(t, 52.51, body.Bounds.North)
}

func TestElevation_RejectsBadSampleRate(t *testing.T) {
	srv := newTestServer(nil, nil)

	for _, q := range []string{"sample_rate=0", "sample_rate=-1", "sample_rate=two"} {
		rec := doJSON(t, srv, http.MethodGet, "/api/relief/elevation?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestHillshade_ReturnsShadeValues(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/relief/hillshade?sample_rate=4&azimuth=315&altitude=45", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		HillshadeData [][]float64 `json:"hillshade_data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.HillshadeData, 625)
	for _, p := range body.HillshadeData {
		assert.GreaterOrEqual(t, p[2], 0.0)
		assert.LessOrEqual(t, p[2], 255.0)
	}
}

func TestHillshade_RejectsBadAngles(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/relief/hillshade?azimuth=north", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContours_DefaultAndExplicitLevels(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/relief/contours", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Contours []relief.ContourGroup `json:"contours"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.LessOrEqual(t, len(body.Contours), 5)

	rec = doJSON(t, srv, http.MethodGet, "/api/relief/contours?levels=1000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Contours)
}

func TestContours_RejectsBadLevels(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/relief/contours?levels=35,high,40", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestElevationAt(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/relief/elevation-at?lat=52.48&lon=13.43", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 52.48, body["lat"])
	assert.Equal(t, 13.43, body["lon"])
	assert.GreaterOrEqual(t, body["elevation"], 25.0)

	rec = doJSON(t, srv, http.MethodGet, "/api/relief/elevation-at?lat=52.48", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBoundsEndpoint(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/relief/bounds", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var b relief.Bounds
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Equal(t, 52.45, b.South)
	assert.Greater(t, b.MaxElevation, b.MinElevation)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := doJSON(t, srv, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := doJSON(t, srv, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestUnknownRouteIs404(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/%s", "unknown"), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
