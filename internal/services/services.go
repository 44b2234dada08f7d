// Package services holds the stateful core: credentials, notes, the
// streak/daily-goal engine and game-progress accumulation.
package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/studyflow/internal/websocket"
)

// Clock returns the current instant. Tests replace it to pin "today".
type Clock func() time.Time

// Publisher delivers live events to a user's open connections.
type Publisher interface {
	Publish(userID uuid.UUID, eventType websocket.EventType, data interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(uuid.UUID, websocket.EventType, interface{}) {}

func publisherOrNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}
