package events

import "time"

// Event defines the contract for all audit events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TypeUserCreated    = "USER_CREATED"
	TypePersonaCreated = "PERSONA_CREATED"
	TypePersonaDeleted = "PERSONA_DELETED"
)

func NewUserCreated(uid, email string) Event {
	return BaseEvent{
		Type:       TypeUserCreated,
		Data:       map[string]interface{}{"uid": uid, "email": email},
		OccurredAt: time.Now(),
	}
}

func NewPersonaCreated(uid, docId, personaName, personaType string) Event {
	return BaseEvent{
		Type: TypePersonaCreated,
		Data: map[string]interface{}{
			"uid":          uid,
			"doc_id":       docId,
			"persona_name": personaName,
			"persona_type": personaType,
		},
		OccurredAt: time.Now(),
	}
}

func NewPersonaDeleted(uid, docId, resolvedBy string) Event {
	return BaseEvent{
		Type: TypePersonaDeleted,
		Data: map[string]interface{}{
			"uid":         uid,
			"doc_id":      docId,
			"resolved_by": resolvedBy,
		},
		OccurredAt: time.Now(),
	}
}
