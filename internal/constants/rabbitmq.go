package constants

// Exchanges
const (
	ExchangeLandmarkEvents = "landmark_events"
	ExchangeTypeTopic      = "topic"
)

// Message headers
const (
	HeaderTraceID      = "x-trace-id"
	HeaderEventType    = "x-event-type"
	HeaderEventVersion = "x-event-version"
)
