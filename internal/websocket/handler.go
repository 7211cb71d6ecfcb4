package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a peer connection for uid to the hub.
func ServeWs(hub *Hub, c *websocket.Conn, uid string) {
	client := &Client{Hub: hub, Conn: c, UID: uid, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // runs in the handler goroutine
}
