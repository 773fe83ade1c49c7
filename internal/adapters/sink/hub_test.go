package sink

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-telemetry-service/internal/domain"
)

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return h.Subscribers() == 1 }, time.Second, time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	return ev
}

func TestHubBroadcastsReports(t *testing.T) {
	h := NewHub()
	conn := dialHub(t, h)
	ctx := context.Background()

	require.NoError(t, h.ReadingRecorded(ctx, domain.VehicleReading{SpeedKmh: 90, RPM: 2800, MileageKmpl: 13}))
	require.NoError(t, h.EstimateReported(ctx, domain.TripEstimate{Stop: "City A", DistanceKm: 50, ETAMinutes: 30, Resolved: true}))
	require.NoError(t, h.EstimateReported(ctx, domain.TripEstimate{Stop: "Quarry"}))

	ev := readEvent(t, conn)
	assert.Equal(t, "reading", ev.Type)
	require.NotNil(t, ev.Reading)
	assert.Equal(t, 90.0, ev.Reading.SpeedKmh)
	assert.Equal(t, 2800, ev.Reading.RPM)

	ev = readEvent(t, conn)
	assert.Equal(t, "estimate", ev.Type)
	require.NotNil(t, ev.Estimate)
	require.NotNil(t, ev.Estimate.ETAMinutes)
	assert.Equal(t, 30.0, *ev.Estimate.ETAMinutes)

	ev = readEvent(t, conn)
	assert.Equal(t, "Quarry", ev.Estimate.Stop)
	assert.Nil(t, ev.Estimate.DistanceKm)
}

func TestHubForgetsDisconnectedSubscribers(t *testing.T) {
	h := NewHub()
	conn := dialHub(t, h)

	conn.Close()
	require.Eventually(t, func() bool { return h.Subscribers() == 0 }, time.Second, time.Millisecond)

	assert.NoError(t, h.ReadingRecorded(context.Background(), domain.VehicleReading{SpeedKmh: 50}))
}

func TestHubCloseDisconnects(t *testing.T) {
	h := NewHub()
	conn := dialHub(t, h)

	h.Close()
	assert.Equal(t, 0, h.Subscribers())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "err = %v", err)
}
