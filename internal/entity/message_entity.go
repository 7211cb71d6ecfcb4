package entity

// Message is one chat message. Immutable once persisted; the assistant
// message's content is replaced in memory exactly once, before persistence.
type Message struct {
	Role        string   `json:"role"`
	Content     string   `json:"content"`
	SentTime    string   `json:"sentTime"` // ISO-8601
	ID          int64    `json:"id"`       // creation-time monotonic token
	UID         string   `json:"uid"`
	UserEmail   string   `json:"userEmail"`
	Persona     *Persona `json:"persona,omitempty"`
	// ConversationID ties the persisted message back to the client-local
	// conversation that produced it.
	ConversationID int64    `json:"conversationId,omitempty"`
	Suggestions    []string `json:"suggestions,omitempty"`
}

// ContextEntry is the role+content projection sent to the completion
// provider; persona and timestamps are stripped.
type ContextEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
