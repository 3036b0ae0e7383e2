package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types published on the account events channel.
const (
	EventAccountRegistered = "account.registered"
	EventAccountDeleted    = "account.deleted"
	EventContactCreated    = "contact.created"
	EventContactDeleted    = "contact.deleted"
)

// Message attributes set on every published event.
const (
	AttrEventType   = "event_type"
	AttrContentType = "content_type"
)

// Event describes a committed change to an account or one of its contacts.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	AccountID  int       `json:"account_id"`
	ContactID  int       `json:"contact_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent stamps a new event with a random id and the current time.
// contactID is zero for account-level events.
func NewEvent(eventType string, accountID, contactID int) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		AccountID:  accountID,
		ContactID:  contactID,
		OccurredAt: time.Now().UTC(),
	}
}

// PublishEvent encodes event as JSON and publishes it to channel.
func (m *MQ) PublishEvent(ctx context.Context, channel string, event Event) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("encode event: %w", err)
	}
	return m.Publish(ctx, channel, data, map[string]string{
		AttrEventType:   event.Type,
		AttrContentType: "application/json",
	})
}

// DecodeEvent parses a message produced by PublishEvent.
func DecodeEvent(msg Message) (Event, error) {
	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		return Event{}, fmt.Errorf("decode event %s: %w", msg.ID, err)
	}
	return event, nil
}
