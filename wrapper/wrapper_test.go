package wrapper

import (
	"testing"

	"github.com/adred-codev/envelopes/carrier"
	"github.com/adred-codev/envelopes/pool"
	"github.com/stretchr/testify/require"
)

func TestNotificationParserStringifiedMessage(t *testing.T) {
	body := []byte(`{"Type":"Notification","MessageId":"mid-1","TopicArn":"arn:aws:sns:us-east-1:1:topic","Timestamp":"2024-01-01T00:00:00Z","Message":"{\"id\":\"id-123\"}"}`)

	p := NewNotificationParser()
	require.True(t, p.QuickMatch(body))

	scope := pool.NewScope(true)
	defer scope.Close()

	result, ok := p.TryParse(CarrierMessage{Body: body}, scope)
	require.True(t, ok)
	require.NotNil(t, result.Notification)
	require.Equal(t, "arn:aws:sns:us-east-1:1:topic", result.Notification.TopicARN)
	require.Equal(t, "mid-1", result.Notification.MessageID)
	require.JSONEq(t, `{"id":"id-123"}`, string(result.Inner))
}

func TestNotificationParserJSONObjectMessage(t *testing.T) {
	body := []byte(`{"Type":"Notification","MessageId":"mid-1","TopicArn":"arn:x","Message":{"id":"id-123"}}`)

	p := NewNotificationParser()
	scope := pool.NewScope(true)
	defer scope.Close()

	result, ok := p.TryParse(CarrierMessage{Body: body}, scope)
	require.True(t, ok)
	require.JSONEq(t, `{"id":"id-123"}`, string(result.Inner))
}

func TestNotificationParserRejectsWrongType(t *testing.T) {
	body := []byte(`{"Type":"SubscriptionConfirmation","TopicArn":"arn:x","MessageId":"mid-1","Message":"hi"}`)
	p := NewNotificationParser()
	scope := pool.NewScope(true)
	defer scope.Close()

	_, ok := p.TryParse(CarrierMessage{Body: body}, scope)
	require.False(t, ok)
}

func TestEventBusParserStringifiedDetail(t *testing.T) {
	body := []byte(`{"detail-type":"order.created","source":"com.example.orders","time":"2024-01-01T00:00:00Z","detail":"{\"id\":\"id-123\"}"}`)

	p := NewEventBusParser()
	require.True(t, p.QuickMatch(body))

	scope := pool.NewScope(true)
	defer scope.Close()

	result, ok := p.TryParse(CarrierMessage{Body: body}, scope)
	require.True(t, ok)
	require.NotNil(t, result.EventBus)
	require.Equal(t, "order.created", result.EventBus.DetailType)
	require.Equal(t, "com.example.orders", result.EventBus.Source)
	require.JSONEq(t, `{"id":"id-123"}`, string(result.Inner))
}

func TestQueueFallbackAlwaysMatches(t *testing.T) {
	body := []byte(`{"id":"id-123","type":"demo.v1"}`)
	p := NewQueueFallbackParser()
	require.True(t, p.QuickMatch(body))

	scope := pool.NewScope(true)
	defer scope.Close()

	result, ok := p.TryParse(CarrierMessage{Body: body, Queue: carrier.QueueMetadata{MessageID: "mid"}}, scope)
	require.True(t, ok)
	require.Equal(t, body, result.Inner)
	require.Equal(t, "mid", result.Queue.MessageID)
}

func TestChainPrefersNotificationOverFallback(t *testing.T) {
	chain := NewChain()
	body := []byte(`{"Type":"Notification","MessageId":"mid-1","TopicArn":"arn:x","Message":"{\"id\":\"id-123\"}"}`)

	scope := pool.NewScope(true)
	defer scope.Close()

	result := chain.Run(CarrierMessage{Body: body}, scope)
	require.NotNil(t, result.Notification)
	require.Nil(t, result.EventBus)
}

func TestChainFallsBackOnBareEnvelope(t *testing.T) {
	chain := NewChain()
	body := []byte(`{"id":"id-123","type":"demo.v1"}`)

	scope := pool.NewScope(true)
	defer scope.Close()

	result := chain.Run(CarrierMessage{Body: body}, scope)
	require.Nil(t, result.Notification)
	require.Nil(t, result.EventBus)
	require.Equal(t, body, result.Inner)
}
