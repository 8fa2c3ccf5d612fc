// Package carrier holds the metadata shapes attached to a received
// message by each wrapper parser.
package carrier

import "time"

// QueueMetadata is always populated on any received message, regardless
// of which wrapper (if any) was unwrapped around it.
type QueueMetadata struct {
	ReceiptHandle string
	MessageID     string
	Attributes    map[string]string
}

// NotificationAttribute is one entry of a notification wrapper's
// MessageAttributes map.
type NotificationAttribute struct {
	Type  string
	Value string
}

// NotificationMetadata is populated when the notification wrapper
// parser recognizes the carrier body.
type NotificationMetadata struct {
	TopicARN       string
	MessageID      string
	Timestamp      time.Time
	Subject        string
	UnsubscribeURL string
	Attributes     map[string]NotificationAttribute
}

// EventBusMetadata is populated when the event-bus wrapper parser
// recognizes the carrier body.
type EventBusMetadata struct {
	EventID    string
	DetailType string
	Source     string
	Time       time.Time
	Account    string
	Region     string
	Resources  []string
}
