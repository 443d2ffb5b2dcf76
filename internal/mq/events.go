package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message attributes set on every tracker event.
const (
	AttrEventID     = "event_id"
	AttrEventType   = "event_type"
	AttrUserID      = "user_id"
	AttrContentType = "content_type"
)

// UserCreated is published on ChannelUserCreated after a new user is stored.
type UserCreated struct {
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ExerciseLogged is published on ChannelExerciseLogged after an exercise is stored.
type ExerciseLogged struct {
	EventID     string    `json:"event_id"`
	ExerciseID  string    `json:"exercise_id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"`
	Date        string    `json:"date"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher is the subset of MQ used to emit events.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// NewEventID returns a fresh event identifier.
func NewEventID() string {
	return uuid.NewString()
}

// PublishJSON encodes event as JSON and publishes it on channel.
func PublishJSON(ctx context.Context, pub Publisher, channel, eventID, userID string, event any) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	attrs := map[string]string{
		AttrEventID:     eventID,
		AttrEventType:   channel,
		AttrUserID:      userID,
		AttrContentType: "application/json",
	}
	return pub.Publish(ctx, channel, data, attrs)
}
