package pubsub

import (
	"context"
	"errors"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrDisabled is returned by Receive on the noop client.
var ErrDisabled = errors.New("pubsub is not configured")

func New(projectID string) PubSubClient {
	ctx := context.Background()
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	teardown := func() {
		pubSubC.Close()
	}

	return &client{
		client:   pubSubC,
		teardown: teardown,
	}
}

// NewNoop returns a client that drops every message.
func NewNoop() PubSubClient {
	return noop{}
}

func (c *client) Enabled() bool {
	return true
}

func (c *client) SendMessage(event EventType, data any) error {
	ctx := context.Background()
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	message := &pubsub.Message{
		Data:       msgpackData,
		Attributes: map[string]string{eventAttribute: string(event)},
	}
	result := c.client.Topic(string(event)).Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", event)
		return err
	}
	log.Debug("SendMessage", "serverID", serverID, "topic", event)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (c *client) Receive(ctx context.Context, subscription string, handle func(event EventType, data []byte)) error {
	sub := c.client.Subscription(subscription)
	log.Info("Receiving messages", "subscription", subscription)
	return sub.Receive(ctx, func(_ context.Context, msg *pubsub.Message) {
		handle(EventType(msg.Attributes[eventAttribute]), msg.Data)
		msg.Ack()
	})
}

func (c *client) Close() {
	c.teardown()
}

func (noop) Enabled() bool {
	return false
}

func (noop) SendMessage(event EventType, data any) error {
	log.Debug("Pubsub disabled, dropping message", "topic", event)
	return nil
}

func (noop) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (noop) Receive(ctx context.Context, subscription string, handle func(event EventType, data []byte)) error {
	return ErrDisabled
}

func (noop) Close() {}

// decode unmarshals MessagePack data into the provided pointer.
func decode(data []byte, returnValue any) error {
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}
