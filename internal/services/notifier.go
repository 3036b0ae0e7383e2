package services

import (
	"context"
	"time"

	"github.com/phonebook-api/apiserver/internal/mq"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// EventPublisher is implemented by *mq.MQ.
type EventPublisher interface {
	PublishEvent(ctx context.Context, channel string, event mq.Event) (string, error)
}

// Notifier publishes account events after the change is committed.
// Failures are logged and never reach the caller. A Notifier without a
// publisher drops every event.
type Notifier struct {
	publisher EventPublisher
	channel   string
	logger    *zap.Logger
}

func NewNotifier(publisher EventPublisher, channel string, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{publisher: publisher, channel: channel, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, eventType string, accountID, contactID int) {
	if n == nil || n.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := mq.NewEvent(eventType, accountID, contactID)
	if _, err := n.publisher.PublishEvent(ctx, n.channel, event); err != nil {
		n.logger.Warn("publish event failed",
			zap.String("event_type", eventType),
			zap.String("event_id", event.ID),
			zap.Int("account_id", accountID),
			zap.Error(err),
		)
	}
}
