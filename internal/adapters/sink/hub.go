package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"trip-telemetry-service/internal/domain"
)

const (
	clientBuffer = 64
	writeWait    = 5 * time.Second
)

// Event is the JSON frame pushed to stream subscribers.
type Event struct {
	Type     string         `json:"type"`
	Reading  *ReadingEvent  `json:"reading,omitempty"`
	Estimate *EstimateEvent `json:"estimate,omitempty"`
}

type ReadingEvent struct {
	SpeedKmh    float64   `json:"speed_kmh"`
	RPM         int       `json:"rpm"`
	MileageKmpl float64   `json:"mileage_kmpl"`
	RecordedAt  time.Time `json:"recorded_at"`
}

type EstimateEvent struct {
	Stop       string   `json:"stop"`
	DistanceKm *float64 `json:"distance_km"`
	ETAMinutes *float64 `json:"eta_minutes"`
}

// Hub broadcasts session reports to websocket subscribers. Each subscriber
// has a bounded queue; a subscriber that falls behind is disconnected rather
// than slowing the session down.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*client]struct{}),
	}
}

// Subscribers returns the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and streams events until the client leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("stream: upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	log.WithField("remote_addr", conn.RemoteAddr()).Info("stream: subscriber connected")

	go h.writeLoop(c)
	h.readLoop(c)
}

// readLoop only drains control frames; it returns when the peer disconnects.
func (h *Hub) readLoop(c *client) {
	defer h.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.drop(c)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcast(ev Event) error {
	msg, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("hub: encode %s event: %w", ev.Type, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			delete(h.clients, c)
			close(c.send)
			log.WithField("remote_addr", c.conn.RemoteAddr()).Warn("stream: dropped slow subscriber")
		}
	}
	return nil
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) ReadingRecorded(_ context.Context, r domain.VehicleReading) error {
	return h.broadcast(Event{
		Type: "reading",
		Reading: &ReadingEvent{
			SpeedKmh:    r.SpeedKmh,
			RPM:         r.RPM,
			MileageKmpl: r.MileageKmpl,
			RecordedAt:  r.RecordedAt,
		},
	})
}

func (h *Hub) EstimateReported(_ context.Context, e domain.TripEstimate) error {
	ev := &EstimateEvent{Stop: e.Stop}
	if e.Resolved {
		ev.DistanceKm = &e.DistanceKm
		ev.ETAMinutes = &e.ETAMinutes
	}
	return h.broadcast(Event{Type: "estimate", Estimate: ev})
}
