package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-telemetry-service/internal/adapters/repositories"
	"trip-telemetry-service/internal/adapters/sink"
	"trip-telemetry-service/internal/api/dto"
	"trip-telemetry-service/internal/api/handlers"
	"trip-telemetry-service/internal/services"
	"trip-telemetry-service/internal/telemetry"
)

func newTestServer(t *testing.T) (*httptest.Server, *sink.Hub) {
	t.Helper()

	repo := repositories.NewFileReportRepository(filepath.Join(t.TempDir(), "accidents.txt"))
	catalog := services.NewReportCatalog(repo)
	require.NoError(t, catalog.Load(context.Background()))

	hub := sink.NewHub()
	sessions := &handlers.SessionHandler{
		Defaults: telemetry.Config{
			SensorInterval: 10 * time.Millisecond,
			TripInterval:   10 * time.Millisecond,
			Duration:       100 * time.Millisecond,
		},
		Waypoints: telemetry.SampleRoute(),
		Sink:      hub,
	}

	srv := httptest.NewServer(NewRouter(catalog, sessions, hub))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return srv, hub
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(res.Body).Decode(&raw))
	return res, raw
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	res, body := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)

	res, _ = do(t, http.MethodPost, srv.URL+"/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
	assert.Equal(t, http.MethodGet, res.Header.Get("Allow"))
}

func TestReportsLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, body := range []string{
		`{"report_id":"R1","vehicle_number":"V1","location":"Depot","damage_cost":200}`,
		`{"report_id":"R2","vehicle_number":"V2","location":"Harbor","damage_cost":900}`,
		`{"report_id":"R3","vehicle_number":"V3","location":"Quarry","damage_cost":50}`,
	} {
		res, _ := do(t, http.MethodPost, srv.URL+"/reports", body)
		require.Equal(t, http.StatusCreated, res.StatusCode)
	}

	res, _ := do(t, http.MethodPost, srv.URL+"/reports", `{"report_id":"R1","damage_cost":5}`)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res, _ = do(t, http.MethodPost, srv.URL+"/reports", `{"report_id":"R4","damage_cost":0}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = do(t, http.MethodPost, srv.URL+"/reports", `{"report_id":"R5","damage_cost":1,"extra":true}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var list dto.ListReportsResponse
	_, body := do(t, http.MethodGet, srv.URL+"/reports", "")
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Reports, 3)
	assert.Equal(t, "R1", list.Reports[0].ReportID)

	_, body = do(t, http.MethodGet, srv.URL+"/reports?sort=damage", "")
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, "R2", list.Reports[0].ReportID)
	assert.Equal(t, "R3", list.Reports[2].ReportID)

	res, _ = do(t, http.MethodGet, srv.URL+"/reports?sort=name", "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var cmp dto.CompareResponse
	res, body = do(t, http.MethodGet, srv.URL+"/reports/compare?first=R1&second=R2", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal(body, &cmp))
	assert.Equal(t, "second", cmp.MoreSevere)

	res, _ = do(t, http.MethodGet, srv.URL+"/reports/compare?first=R1&second=R9", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = do(t, http.MethodGet, srv.URL+"/reports/compare?first=R1", "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestRunSession(t *testing.T) {
	srv, _ := newTestServer(t)

	res, body := do(t, http.MethodPost, srv.URL+"/sessions", "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out dto.SessionResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.NotEmpty(t, out.SpeedHistory)
	require.Len(t, out.Estimates, 3)
	assert.Equal(t, "City A", out.Estimates[0].Stop)
	require.NotNil(t, out.Estimates[0].ETAMinutes)
	assert.InDelta(t, 50/out.Estimates[0].SpeedKmh*60, *out.Estimates[0].ETAMinutes, 1e-9)
	assert.GreaterOrEqual(t, out.ElapsedMs, int64(100))

	res, _ = do(t, http.MethodPost, srv.URL+"/sessions", `{"duration_ms": 120000}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = do(t, http.MethodPost, srv.URL+"/sessions", `{"sensor_interval_ms": 1}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestSessionStreamsToSubscribers(t *testing.T) {
	srv, hub := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/telemetry/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, time.Millisecond)

	res, _ := do(t, http.MethodPost, srv.URL+"/sessions", `{"duration_ms": 50}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev sink.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Contains(t, []string{"reading", "estimate"}, ev.Type)
}
