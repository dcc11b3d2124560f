package contracts

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	UserID string `json:"userId"`
	Data   []byte `json:"data"`
}

// Routing keys - using consistent event/command patterns
const (
	EventMessageSent        = "chat.message.sent"
	EventClientConnected    = "chat.client.connected"
	EventClientDisconnected = "chat.client.disconnected"
)
