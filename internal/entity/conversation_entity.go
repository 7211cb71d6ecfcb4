package entity

import "time"

// Conversation is a client-local ordered message history scoped to one
// persona within one session. It is never persisted as-is; the durable unit
// is the ChatDocument.
type Conversation struct {
	ID        int64
	Persona   Persona
	Messages  []Message
	CreatedAt time.Time
}
