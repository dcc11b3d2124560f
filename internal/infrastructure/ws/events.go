package ws

const (
	// Inbound, client to server.
	MessageSend = "message.send"

	// Outbound, server to clients.
	MessageNew = "message.new"

	ErrorEvent          = "error"
	AuthenticationError = "error.auth"
	StoreError          = "error.store"
)
