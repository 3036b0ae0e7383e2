package mq

import (
	"context"
	"testing"

	"github.com/phonebook-api/apiserver/config"
	"github.com/stretchr/testify/require"
)

type recordingBackend struct {
	channel string
	data    []byte
	attrs   map[string]string
	closed  bool
}

func (b *recordingBackend) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	b.channel = channel
	b.data = data
	b.attrs = attrs
	return "msg-1", nil
}

func (b *recordingBackend) Subscribe(ctx context.Context, _ string, handler Handler) error {
	return handler(ctx, Message{ID: "msg-1", Data: b.data, Attributes: b.attrs})
}

func (b *recordingBackend) Close() error {
	b.closed = true
	return nil
}

func TestPublishEventRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := &recordingBackend{}
	queue := New(backend)

	sent := NewEvent(EventContactCreated, 7, 11)
	id, err := queue.PublishEvent(ctx, "phonebook.events", sent)
	require.NoError(t, err)
	require.Equal(t, "msg-1", id)
	require.Equal(t, "phonebook.events", backend.channel)
	require.Equal(t, EventContactCreated, backend.attrs[AttrEventType])
	require.Equal(t, "application/json", backend.attrs[AttrContentType])

	var got Event
	err = queue.Subscribe(ctx, "phonebook.events", func(_ context.Context, msg Message) error {
		got, err = DecodeEvent(msg)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, sent.ID, got.ID)
	require.Equal(t, 7, got.AccountID)
	require.Equal(t, 11, got.ContactID)
	require.True(t, sent.OccurredAt.Equal(got.OccurredAt))

	require.NoError(t, queue.Close())
	require.True(t, backend.closed)
}

func TestNewEventIDsAreUnique(t *testing.T) {
	a := NewEvent(EventAccountRegistered, 1, 0)
	b := NewEvent(EventAccountRegistered, 1, 0)
	require.NotEqual(t, a.ID, b.ID)
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	_, err := DecodeEvent(Message{ID: "x", Data: []byte("{")})
	require.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()

	queue, err := NewFromConfig(ctx, config.MQConfig{Backend: config.BackendNone})
	require.NoError(t, err)
	require.Nil(t, queue)

	_, err = NewFromConfig(ctx, config.MQConfig{Backend: "kafka"})
	require.Error(t, err)

	_, err = NewFromConfig(ctx, config.MQConfig{Backend: config.BackendRabbitMQ})
	require.Error(t, err, "rabbitmq url is required")

	_, err = NewFromConfig(ctx, config.MQConfig{Backend: config.BackendPubSub})
	require.Error(t, err, "pubsub project id is required")
}

func TestHeadersToAttributes(t *testing.T) {
	require.Nil(t, headersToAttributes(nil))

	attrs := headersToAttributes(map[string]any{
		"event_type": "account.deleted",
		"raw":        []byte("bytes"),
		"n":          int32(3),
	})
	require.Equal(t, "account.deleted", attrs["event_type"])
	require.Equal(t, "bytes", attrs["raw"])
	require.Equal(t, "3", attrs["n"])
}

func TestContentTypeFallback(t *testing.T) {
	require.Equal(t, "application/octet-stream", contentType(nil))
	require.Equal(t, "application/json", contentType(map[string]string{AttrContentType: "application/json"}))
}
