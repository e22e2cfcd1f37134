package brackets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastToRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run(ctx)

	room := RoomForTournament(uuid.New())
	listener := &Client{Hub: hub, Send: make(chan []byte, 4), Room: room}
	bystander := &Client{Hub: hub, Send: make(chan []byte, 4), Room: "tournament_other"}
	require.True(t, hub.Join(listener))
	require.True(t, hub.Join(bystander))
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 1 }, time.Second, 5*time.Millisecond)

	hub.BroadcastToRoom(room, WebSocketMessage{Type: MessageMatchUpdated, Payload: map[string]int{"round": 1}, RoomID: room})

	select {
	case raw := <-listener.Send:
		var msg WebSocketMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, MessageMatchUpdated, msg.Type)
		assert.Equal(t, room, msg.RoomID)
	case <-time.After(time.Second):
		t.Fatal("listener did not receive the broadcast")
	}
	assert.Len(t, bystander.Send, 0)
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run(ctx)

	client := &Client{Hub: hub, Send: make(chan []byte, 1), Room: "tournament_x"}
	require.True(t, hub.Join(client))
	require.Eventually(t, func() bool { return hub.RoomSize("tournament_x") == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister <- client
	require.Eventually(t, func() bool { return hub.RoomSize("tournament_x") == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-client.Send
	assert.False(t, open)
}

func TestHub_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := &Client{Hub: hub, Send: make(chan []byte, 1), Room: "r"}
	require.True(t, hub.Join(client))
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	assert.False(t, hub.Join(&Client{Hub: hub, Send: make(chan []byte), Room: "r"}))
}

func TestHub_NilLogger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	room := RoomForTournament(uuid.New())
	client := &Client{Hub: hub, Send: make(chan []byte, 1), Room: room}
	require.True(t, hub.Join(client))
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister <- client
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 0 }, time.Second, 5*time.Millisecond)
}
