package wrapper

import "github.com/adred-codev/envelopes/pool"

// QueueFallbackParser is the safety net: a bare carrier body with no
// recognized wrapper around it. It always matches.
type QueueFallbackParser struct{}

// NewQueueFallbackParser builds the fallback parser.
func NewQueueFallbackParser() *QueueFallbackParser { return &QueueFallbackParser{} }

func (p *QueueFallbackParser) Name() string { return "queue-fallback" }

func (p *QueueFallbackParser) QuickMatch(body []byte) bool { return true }

func (p *QueueFallbackParser) TryParse(original CarrierMessage, scope *pool.Scope) (Result, bool) {
	return Result{Inner: original.Body, Queue: original.Queue}, true
}
