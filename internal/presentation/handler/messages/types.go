package messages

// messageItem is one entry of the history listing.
type messageItem struct {
	ID        string `json:"id" example:"550e8400-e29b-41d4-a716-446655440003"` // Unique message identifier
	Text      string `json:"text" example:"Hello, everyone!"`                  // Message content
	Type      string `json:"type" example:"message"`                           // Item discriminator, always "message"
	CreatedAt string `json:"createdAt" example:"2024-01-01T12:00:00Z"`         // Persistence timestamp in RFC3339 format
}

// listResponse is the envelope the chat front-end expects.
type listResponse struct {
	Type  string        `json:"type" example:"list"`
	Items []messageItem `json:"items"`
}
