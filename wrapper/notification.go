package wrapper

import (
	"bytes"
	"time"

	"github.com/adred-codev/envelopes/carrier"
	"github.com/adred-codev/envelopes/pool"
	"github.com/tidwall/gjson"
)

var (
	notificationSentinelType  = []byte(`"Type":"Notification"`)
	notificationSentinelTopic = []byte(`"TopicArn"`)
)

// NotificationParser recognizes the notification-service wrapper shape
// (the SNS-like carrier): a JSON object with Type set to
// "Notification", carrying the inner payload under Message.
type NotificationParser struct{}

// NewNotificationParser builds the notification wrapper parser.
func NewNotificationParser() *NotificationParser { return &NotificationParser{} }

func (p *NotificationParser) Name() string { return "notification" }

func (p *NotificationParser) QuickMatch(body []byte) bool {
	window := body
	if len(window) > quickMatchWindow {
		window = window[:quickMatchWindow]
	}
	return bytes.Contains(window, notificationSentinelType) && bytes.Contains(window, notificationSentinelTopic)
}

func (p *NotificationParser) TryParse(original CarrierMessage, scope *pool.Scope) (Result, bool) {
	parsed := gjson.ParseBytes(original.Body)
	if !parsed.IsObject() {
		return Result{}, false
	}

	typ := parsed.Get("Type")
	if typ.Type != gjson.String || typ.Str != "Notification" {
		return Result{}, false
	}

	topicARN := parsed.Get("TopicArn")
	messageID := parsed.Get("MessageId")
	message := parsed.Get("Message")
	if topicARN.Type != gjson.String || messageID.Type != gjson.String || !message.Exists() {
		return Result{}, false
	}

	inner, ok := captureInner(message, scope)
	if !ok {
		return Result{}, false
	}

	meta := &carrier.NotificationMetadata{
		TopicARN:  topicARN.Str,
		MessageID: messageID.Str,
	}

	if ts := parsed.Get("Timestamp"); ts.Type == gjson.String {
		if t, err := time.Parse(time.RFC3339Nano, ts.Str); err == nil {
			meta.Timestamp = t
		}
	}
	if subj := parsed.Get("Subject"); subj.Type == gjson.String {
		meta.Subject = subj.Str
	}
	if u := parsed.Get("UnsubscribeURL"); u.Type == gjson.String {
		meta.UnsubscribeURL = u.Str
	}
	if attrs := parsed.Get("MessageAttributes"); attrs.IsObject() {
		meta.Attributes = make(map[string]carrier.NotificationAttribute)
		attrs.ForEach(func(key, value gjson.Result) bool {
			meta.Attributes[key.String()] = carrier.NotificationAttribute{
				Type:  value.Get("Type").String(),
				Value: value.Get("Value").String(),
			}
			return true
		})
	}

	return Result{
		Inner:        inner,
		Queue:        original.Queue,
		Notification: meta,
	}, true
}

// captureInner returns the zero-copy/unescaped byte view of a Message or
// detail field, depending on whether it arrived as a JSON object/array
// (captured with no copy) or a JSON string (unescaped into scope).
func captureInner(value gjson.Result, scope *pool.Scope) ([]byte, bool) {
	switch value.Type {
	case gjson.JSON:
		return pool.ViewBytes(value.Raw), true
	case gjson.String:
		raw := value.Raw
		if len(raw) < 2 {
			return nil, false
		}
		unescaped, err := pool.UnescapeToken([]byte(raw[1:len(raw)-1]), scope)
		if err != nil {
			return nil, false
		}
		return unescaped, true
	default:
		return nil, false
	}
}
