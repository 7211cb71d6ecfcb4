package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

func newTestHub() *Hub {
	h := NewHub(nil, noopLogger{})
	go h.Run()
	return h
}

func connectedClients(h *Hub, uid string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[uid])
}

func TestHubSlowClientDroppedOnce(t *testing.T) {
	h := newTestHub()

	client := &Client{Hub: h, UID: "slow-user", Send: make(chan []byte, 1)}
	h.register <- client
	require.Eventually(t, func() bool {
		return connectedClients(h, "slow-user") == 1
	}, time.Second, 5*time.Millisecond)

	// Fill the buffer so the next delivery finds it full.
	client.Send <- []byte("backlog")

	h.Send("slow-user", Frame{Type: "chat_delta", Data: "x"})
	require.Eventually(t, func() bool {
		return connectedClients(h, "slow-user") == 0
	}, time.Second, 5*time.Millisecond)

	// A second delivery after removal must not panic on a closed channel.
	h.Send("slow-user", Frame{Type: "chat_delta", Data: "y"})

	<-client.Send // drain the backlog entry
	_, open := <-client.Send
	assert.False(t, open, "hub should have closed the channel exactly once")
}

func TestHubBroadcastSkipsSlowClientWithoutBlocking(t *testing.T) {
	h := newTestHub()

	fast := &Client{Hub: h, UID: "fast-user", Send: make(chan []byte, 4)}
	slow := &Client{Hub: h, UID: "slow-user", Send: make(chan []byte, 1)}
	h.register <- fast
	h.register <- slow
	require.Eventually(t, func() bool {
		return connectedClients(h, "fast-user") == 1 && connectedClients(h, "slow-user") == 1
	}, time.Second, 5*time.Millisecond)

	slow.Send <- []byte("backlog")

	done := make(chan struct{})
	go func() {
		h.Broadcast(Frame{Type: "notification", Data: "hello"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast did not return while a slow client was being dropped")
	}

	require.Eventually(t, func() bool {
		return connectedClients(h, "slow-user") == 0
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, connectedClients(h, "fast-user"))
	assert.Len(t, fast.Send, 1)
}
