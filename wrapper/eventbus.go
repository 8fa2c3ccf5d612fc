package wrapper

import (
	"bytes"
	"time"

	"github.com/adred-codev/envelopes/carrier"
	"github.com/adred-codev/envelopes/pool"
	"github.com/tidwall/gjson"
)

var (
	eventBusSentinelDetailType = []byte(`"detail-type"`)
	eventBusSentinelDetail     = []byte(`"detail"`)
)

// EventBusParser recognizes the event-bus wrapper shape (the
// EventBridge-like carrier): a JSON object carrying detail-type, source,
// time, and the inner payload under detail.
type EventBusParser struct{}

// NewEventBusParser builds the event-bus wrapper parser.
func NewEventBusParser() *EventBusParser { return &EventBusParser{} }

func (p *EventBusParser) Name() string { return "event-bus" }

func (p *EventBusParser) QuickMatch(body []byte) bool {
	window := body
	if len(window) > quickMatchWindow {
		window = window[:quickMatchWindow]
	}
	return bytes.Contains(window, eventBusSentinelDetailType) && bytes.Contains(window, eventBusSentinelDetail)
}

func (p *EventBusParser) TryParse(original CarrierMessage, scope *pool.Scope) (Result, bool) {
	parsed := gjson.ParseBytes(original.Body)
	if !parsed.IsObject() {
		return Result{}, false
	}

	detailType := parsed.Get("detail-type")
	source := parsed.Get("source")
	eventTime := parsed.Get("time")
	detail := parsed.Get("detail")
	if detailType.Type != gjson.String || source.Type != gjson.String || eventTime.Type != gjson.String || !detail.Exists() {
		return Result{}, false
	}

	t, err := time.Parse(time.RFC3339Nano, eventTime.Str)
	if err != nil {
		return Result{}, false
	}

	inner, ok := captureInner(detail, scope)
	if !ok {
		return Result{}, false
	}

	meta := &carrier.EventBusMetadata{
		DetailType: detailType.Str,
		Source:     source.Str,
		Time:       t,
	}
	if id := parsed.Get("id"); id.Type == gjson.String {
		meta.EventID = id.Str
	}
	if acct := parsed.Get("account"); acct.Type == gjson.String {
		meta.Account = acct.Str
	}
	if region := parsed.Get("region"); region.Type == gjson.String {
		meta.Region = region.Str
	}
	if resources := parsed.Get("resources"); resources.IsArray() {
		resources.ForEach(func(_, value gjson.Result) bool {
			meta.Resources = append(meta.Resources, value.String())
			return true
		})
	}

	return Result{
		Inner:    inner,
		Queue:    original.Queue,
		EventBus: meta,
	}, true
}
