package pubsub

import "context"

type PubSubClient interface {
	// Enabled reports whether messages actually leave the process.
	Enabled() bool
	SendMessage(event EventType, data any) error
	ProcessMessage(data []byte, returnValue any) error
	// Receive pulls messages from subscription until ctx is done.
	Receive(ctx context.Context, subscription string, handle func(event EventType, data []byte)) error
	Close()
}
