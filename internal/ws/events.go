package ws

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventVerification EventType = "verification.completed"
	EventUpload       EventType = "upload.completed"
	EventBatch        EventType = "batch.completed"
	EventDashboard    EventType = "dashboard.updated"
)

// Event is the wire format pushed to connected clients. UserID routes the
// event; uuid.Nil addresses every connected client.
type Event struct {
	UserID    uuid.UUID   `json:"-"`
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
