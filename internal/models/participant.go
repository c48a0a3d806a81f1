package models

// Participant represents a person registered for an event's draw.
// RegisteredAt is an ISO-8601 timestamp. IsWinner is display state owned by
// the caller; selectors never read or write it.
type Participant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	EventID      string `json:"eventId"`
	RegisteredAt string `json:"registeredAt"`
	IsWinner     bool   `json:"isWinner,omitempty"`
}
