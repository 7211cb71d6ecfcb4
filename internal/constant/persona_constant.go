package constant

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"

	// Provisional content shown for the assistant message while the
	// completion stream is in flight. Never persisted.
	AssistantPlaceholderContent = "Thinking..."

	// Shown in place of the placeholder when the completion call fails.
	AssistantFailureContent = "Sorry, I couldn't generate a response. Please try again."

	// Persona categories. The numeric ids are an external contract shared
	// with the front end and the completion collaborator.
	PersonaTypeGeneral    = "general"
	PersonaTypeFashion    = "fashion"
	PersonaTypeLuxury     = "luxury"
	PersonaTypeFood       = "food"
	PersonaTypeTechnology = "technology"

	PersonaCategoryGeneral    = 1
	PersonaCategoryFashion    = 2
	PersonaCategoryLuxury     = 3
	PersonaCategoryFood       = 4
	PersonaCategoryTechnology = 5

	PersonaSystemPromptTemplate = `You are %s. %s

Stay in character for the entire conversation. Answer as this persona would:
match their expertise, vocabulary and point of view. Keep responses focused
and conversational.`
)

// ExchangeStoredTopic is the in-process topic a completed and persisted
// user/assistant exchange is announced on.
const ExchangeStoredTopic = "chat.exchange.stored"

// TrailingBoilerplatePattern matches the suggestion lead-in the model tends to
// append to the end of a response body. It is stripped from the final content
// before display and persistence.
const TrailingBoilerplatePattern = `(?s)\n*(?:What kind of|Would you like me to suggest|Here are some follow-up).*$`
