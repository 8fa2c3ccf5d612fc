// Package queue defines the generic queue-service collaborator contract
// the demonstration harness publishes to and receives from, with two
// concrete implementations (natsqueue, kafkaqueue) behind it.
package queue

import "context"

// Message is a single published or received payload plus its carrier
// attributes, decoupled from any one backend's wire shape.
type Message struct {
	Body       string
	Attributes map[string]string
}

// Handler processes a received Message. Returning an error does not
// retry the message in either backend implementation here; it is logged
// and counted.
type Handler func(ctx context.Context, msg Message) error

// Backend is the generic queue-service contract: publish a message,
// subscribe a handler, and shut down cleanly. Both natsqueue and
// kafkaqueue implement it identically from the caller's point of view.
type Backend interface {
	// Publish sends msg to the backend's configured destination.
	Publish(ctx context.Context, msg Message) error
	// Subscribe starts delivering received messages to handler and
	// returns once ctx is cancelled; Close alone does not end it.
	Subscribe(ctx context.Context, handler Handler) error
	// Close releases backend resources.
	Close() error
}
