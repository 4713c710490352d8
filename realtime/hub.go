package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
)

const (
	EventJoinRoom   = "joinRoom"
	EventRoomJoined = "roomJoined"
	EventError      = "error"
	EventNewMessage = "newMessage"
)

// Envelope is the wire shape of every realtime event.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// UserKey is the delivery key for a user's connection group.
func UserKey(userID uint) string {
	return "user:" + strconv.FormatUint(uint64(userID), 10)
}

// Hub is the delivery bus for one process. Publishing to a key
// reaches every connection currently joined under it; with nobody
// joined the event is dropped, durability is the store's job.
type Hub struct {
	registry *Registry
	logger   *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{registry: NewRegistry(), logger: logger}
}

func (h *Hub) Registry() *Registry { return h.registry }

// Publish marshals the event once and fans it out to the key's
// connections. The context is accepted for interface symmetry with
// cross-process buses; local delivery never blocks on it.
func (h *Hub) Publish(ctx context.Context, key, event string, data any) error {
	b, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return err
	}
	h.Deliver(key, b)
	return nil
}

// Deliver hands a pre-marshaled event to every joined connection,
// returning how many accepted it. Slow consumers are skipped rather
// than awaited.
func (h *Hub) Deliver(key string, msg []byte) int {
	conns := h.registry.connsFor(key)
	delivered := 0
	for _, c := range conns {
		if c.Deliver(msg) {
			delivered++
		}
	}
	if len(conns) > delivered {
		h.logger.Warn("dropped event for slow connections", "key", key, "dropped", len(conns)-delivered)
	}
	return delivered
}
