package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub) *Client {
	return &Client{
		hub:    hub,
		logger: hub.logger,
		send:   make(chan []byte, 4),
	}
}

func readEvent(t *testing.T, c *Client) Envelope {
	t.Helper()
	var env Envelope
	select {
	case msg := <-c.send:
		require.NoError(t, json.Unmarshal(msg, &env))
	default:
		t.Fatal("expected an event on the connection")
	}
	return env
}

func TestHandleJoin(t *testing.T) {
	hub := NewHub(nil)
	c := newTestClient(hub)

	c.handleJoin(json.RawMessage(`"7"`))

	env := readEvent(t, c)
	assert.Equal(t, EventRoomJoined, env.Event)
	assert.Equal(t, "user:7", env.Data)
	assert.Equal(t, 1, hub.Registry().Joined("user:7"))
}

func TestHandleJoinNumericID(t *testing.T) {
	hub := NewHub(nil)
	c := newTestClient(hub)

	c.handleJoin(json.RawMessage(`7`))

	env := readEvent(t, c)
	assert.Equal(t, EventRoomJoined, env.Event)
	assert.Equal(t, "user:7", env.Data)
}

func TestHandleJoinRejectsInvalidIDs(t *testing.T) {
	// Zero and garbage ids are rejected the same way whether sent as
	// a string or a number, and nothing ends up in the registry.
	for _, raw := range []string{`""`, `"0"`, `0`, `"abc"`, `null`} {
		hub := NewHub(nil)
		c := newTestClient(hub)

		c.handleJoin(json.RawMessage(raw))

		env := readEvent(t, c)
		assert.Equal(t, EventError, env.Event, "payload %s", raw)
		assert.Equal(t, 0, hub.Registry().Joined("user:0"), "payload %s", raw)
		_, joined := hub.Registry().Key(c)
		assert.False(t, joined, "payload %s", raw)
	}
}
