package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"persona-chat-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const redisChannel = "cluster_events"

// Frame is the envelope pushed to connected clients. Type distinguishes
// chat stream deltas from completion markers and notifications.
type Frame struct {
	Type string      `json:"type"` // "chat_delta", "chat_complete", "notification"
	Data interface{} `json:"data"`
}

type Hub struct {
	// Registered clients map: external uid -> list of clients (multi-tab)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UID] = append(h.clients[client.UID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"uid": client.UID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UID]) == 0 {
					delete(h.clients, client.UID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"uid": client.UID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// dropClients queues slow clients for removal. Only the Run loop closes a
// client's Send channel, so a client reported slow by several senders is
// still closed exactly once. Must not be called while mu is held.
func (h *Hub) dropClients(clients []*Client) {
	for _, client := range clients {
		h.unregister <- client
	}
}

// Send delivers a frame to every connection the user has, locally and via
// redis for connections held by other instances.
func (h *Hub) Send(uid string, frame Frame) {
	data, _ := json.Marshal(frame)

	h.mu.RLock()
	clients, localFound := h.clients[uid]
	h.mu.RUnlock()

	if localFound {
		var slow []*Client
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"uid": uid})
				slow = append(slow, client)
			}
		}
		h.dropClients(slow)
	}

	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_uid": uid,
			"message":    data,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), redisChannel, jsonPayload)
	}
}

// Broadcast delivers a frame to ALL connected clients.
func (h *Hub) Broadcast(frame Frame) {
	data, _ := json.Marshal(frame)

	var slow []*Client
	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				slow = append(slow, client)
			}
		}
	}
	h.mu.RUnlock()
	h.dropClients(slow)

	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_uid": "*",
			"message":    data,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), redisChannel, jsonPayload)
	}
}

// subscribeToRedis relays frames published by other instances to locally
// connected clients. Every instance subscribes to the shared channel and
// filters by target uid.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetUID string          `json:"target_uid"`
			Message   json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if payload.TargetUID == "*" {
			var slow []*Client
			h.mu.RLock()
			for _, clients := range h.clients {
				for _, client := range clients {
					select {
					case client.Send <- payload.Message:
					default:
						slow = append(slow, client)
					}
				}
			}
			h.mu.RUnlock()
			h.dropClients(slow)
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[payload.TargetUID]
		h.mu.RUnlock()

		if ok {
			var slow []*Client
			for _, client := range clients {
				select {
				case client.Send <- payload.Message:
				default:
					slow = append(slow, client)
				}
			}
			h.dropClients(slow)
		}
	}
}
