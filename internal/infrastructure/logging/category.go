package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	Chat            Category = "Chat"
	RabbitMQ        Category = "RabbitMQ"
	RequestResponse Category = "RequestResponse"
)

const (
	// General
	Startup         SubCategory = "Startup"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// Chat
	Handshake   SubCategory = "Handshake"
	Fanout      SubCategory = "Fanout"
	Persistence SubCategory = "Persistence"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	BodySize     ExtraKey = "BodySize"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	ConnectionID ExtraKey = "ConnectionId"
	UserID       ExtraKey = "UserId"
	MessageID    ExtraKey = "MessageId"
	ErrorMessage ExtraKey = "ErrorMessage"
)
