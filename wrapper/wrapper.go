// Package wrapper implements the outer-wrapper detection chain: cheap
// byte-scan quick-match followed by an authoritative parse, tried across
// the three known carrier shapes in a fixed order.
package wrapper

import (
	"github.com/adred-codev/envelopes/carrier"
	"github.com/adred-codev/envelopes/pool"
)

// quickMatchWindow bounds how much of the payload the cheap byte-scan
// inspects.
const quickMatchWindow = 2048

// CarrierMessage is what a caller hands to the wrapper chain: the raw
// body plus the queue metadata that's always available for the message,
// regardless of what (if anything) wraps it.
type CarrierMessage struct {
	Body  []byte
	Queue carrier.QueueMetadata
}

// Result is what a parser returns on a successful try-parse: the inner
// payload slice plus whichever wrapper metadata it recognized. The
// queue-fallback parser returns the original body itself; the wrapper
// parsers return a view into gjson's string copy of the body, or a
// scope buffer holding an unescaped string payload.
type Result struct {
	Inner        []byte
	Queue        carrier.QueueMetadata
	Notification *carrier.NotificationMetadata
	EventBus     *carrier.EventBusMetadata
}

// Parser recognizes one carrier wrapper shape.
type Parser interface {
	// Name identifies the parser for logging/diagnostics.
	Name() string
	// QuickMatch scans the first quickMatchWindow bytes of body for
	// sentinel substrings characteristic of this wrapper. It never
	// allocates and never parses; a true result is a hint, not a
	// guarantee — TryParse is always the authority.
	QuickMatch(body []byte) bool
	// TryParse attempts the full parse. It never panics: any malformed
	// input is reported via ok=false, not an error return, matching
	// any malformed input is swallowed, not surfaced as an error.
	TryParse(original CarrierMessage, scope *pool.Scope) (Result, bool)
}

// Chain tries parsers in a fixed order, applying the ordering and
// tie-break rules the carrier shapes require.
type Chain struct {
	parsers []Parser
}

// NewChain builds the standard chain: notification, event-bus, then the
// queue-fallback safety net (which always matches). Order matters and is
// not configurable.
func NewChain() *Chain {
	return &Chain{parsers: []Parser{
		NewNotificationParser(),
		NewEventBusParser(),
		NewQueueFallbackParser(),
	}}
}

// Run executes the full chain: first pass tries only parsers whose
// QuickMatch accepted, in order; if none of those produce a result, a
// second pass retries every parser ignoring QuickMatch entirely, as a
// safety net. The fallback parser always succeeds, so Run always
// returns a Result.
func (c *Chain) Run(original CarrierMessage, scope *pool.Scope) Result {
	for _, p := range c.parsers {
		if !p.QuickMatch(original.Body) {
			continue
		}
		if result, ok := p.TryParse(original, scope); ok {
			return result
		}
	}

	for _, p := range c.parsers {
		if result, ok := p.TryParse(original, scope); ok {
			return result
		}
	}

	// Unreachable in practice: the queue-fallback parser always
	// succeeds. Returned defensively so Run never panics if the chain
	// is ever constructed without it.
	return Result{Inner: original.Body, Queue: original.Queue}
}
