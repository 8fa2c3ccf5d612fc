// Package envelope implements the canonical event envelope: its data
// model, the streaming writer that emits it, and the
// streaming reader that parses it with zero-copy data slicing (§4.5).
package envelope

import (
	"fmt"
	"time"

	"github.com/adred-codev/envelopes/carrier"
)

// SpecVersion is the only spec-version value this package ever emits.
const SpecVersion = "1.0"

// Envelope is the canonical event envelope. Once returned to a caller it
// is immutable; construct a new one rather than mutating a returned
// value.
type Envelope struct {
	ID              string
	Source          string // original-string form; empty means absent
	SpecVersion     string
	Type            string
	Time            time.Time
	DataContentType string // empty means application/json
	Data            any    // the carried message
	Metadata        *Metadata

	// Carrier metadata, populated only by convert-to-envelope. Queue is
	// always set on a received envelope; Notification and EventBus are
	// set only when the corresponding wrapper parser matched.
	Queue        carrier.QueueMetadata
	Notification *carrier.NotificationMetadata
	EventBus     *carrier.EventBusMetadata
}

// String renders a log-safe summary: id, type, source, content-type, but
// never the payload, so it's safe to pass to a logger even when
// log-message-content is false.
func (e *Envelope) String() string {
	if e == nil {
		return "<nil envelope>"
	}
	return fmt.Sprintf("Envelope{id=%s type=%s source=%s contentType=%s}",
		e.ID, e.Type, e.Source, e.effectiveContentType())
}

func (e *Envelope) effectiveContentType() string {
	if e.DataContentType == "" {
		return "application/json"
	}
	return e.DataContentType
}
