package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// noop is used when no GCP project is configured.
type noop struct{}

// EventType represents the type of event/message sent via pubsub. Each event
// type is published to the topic of the same name.
type EventType string

const (
	EventSessionUpdated EventType = "session-updated"
	EventSessionEnded   EventType = "session-ended"
	EventSpecialWin     EventType = "special-win"
)

// eventAttribute carries the EventType on every published message.
const eventAttribute = "event"
