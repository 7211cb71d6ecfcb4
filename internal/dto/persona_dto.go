package dto

// PersonaListItem is the transformed persona shape consumed by the chat UI.
type PersonaListItem struct {
	PersonaType string `json:"persona_type"`
	PersonaName string `json:"persona_name"`
	PersonaBio  string `json:"persona_bio"`
	Role        string `json:"role"`
	Id          int    `json:"id"`
	ProfileID   string `json:"profileId"`
	DocID       string `json:"databaseProfileId"`
}

// PersonaPayload carries a persona across the API boundary in its
// client-facing field names.
type PersonaPayload struct {
	Title     string `json:"title" validate:"required"`
	Bio       string `json:"desc"`
	Type      string `json:"type"`
	ProfileID string `json:"profileId"`
	DocID     string `json:"databaseProfileId"`
}
