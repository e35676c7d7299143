package ws

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventProxyEvent    EventType = "proxy.event"
	EventStatusUpdated EventType = "status.updated"
	EventSessionEnded  EventType = "session.ended"
)

type Event struct {
	SessionID uuid.UUID   `json:"-"`
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
