package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "deliver:"

// RedisBus fans publishes out across server processes through Redis
// pub/sub. Every process runs a subscriber that hands incoming events
// to its local hub, so a user's connections receive the event no
// matter which process accepted the originating request.
type RedisBus struct {
	rdb    *redis.Client
	hub    *Hub
	logger *slog.Logger
}

func NewRedisBus(rdb *redis.Client, hub *Hub, logger *slog.Logger) *RedisBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBus{rdb: rdb, hub: hub, logger: logger}
}

func (b *RedisBus) Publish(ctx context.Context, key, event string, data any) error {
	msg, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, channelPrefix+key, msg).Err()
}

// Run subscribes to all delivery channels and relays each event to the
// local hub. Blocks until ctx is canceled.
func (b *RedisBus) Run(ctx context.Context) {
	sub := b.rdb.PSubscribe(ctx, channelPrefix+"user:*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			key := strings.TrimPrefix(msg.Channel, channelPrefix)
			b.hub.Deliver(key, []byte(msg.Payload))
		}
	}
}
