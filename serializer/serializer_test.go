package serializer

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/adred-codev/envelopes/carrier"
	"github.com/adred-codev/envelopes/clock"
	"github.com/adred-codev/envelopes/codec"
	"github.com/adred-codev/envelopes/envelope"
	"github.com/adred-codev/envelopes/errs"
	"github.com/adred-codev/envelopes/idgen"
	"github.com/adred-codev/envelopes/subscriber"
	"github.com/stretchr/testify/require"
)

type orderPlaced struct {
	ID string `json:"id"`
}

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

type fixedIDs struct{ id string }

func (f fixedIDs) Next() string { return f.id }

func newTestSerializer(t *testing.T, callbacks Callbacks) (*Serializer, *subscriber.Map) {
	t.Helper()
	registry := subscriber.NewMap()
	registry.Register("order.placed.v1", func() any { return &orderPlaced{} }, codec.JSON{})

	ser := New(
		registry, registry,
		fixedClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		fixedIDs{id: "fixed-id"},
		StaticSource("urn:test:service"),
		callbacks,
		Options{CleanRentedBuffers: true, LogMessageContent: true},
	)
	return ser, registry
}

func TestCreateEnvelopeStampsFields(t *testing.T) {
	ser, _ := newTestSerializer(t, Callbacks{})

	env, err := ser.CreateEnvelope(&orderPlaced{ID: "ord-1"})
	require.NoError(t, err)
	require.Equal(t, "fixed-id", env.ID)
	require.Equal(t, "urn:test:service", env.Source)
	require.Equal(t, "order.placed.v1", env.Type)
	require.True(t, env.Time.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 0, env.Metadata.Len())
}

func TestCreateEnvelopeUnmappedTypeFails(t *testing.T) {
	ser, _ := newTestSerializer(t, Callbacks{})

	type unmapped struct{}
	_, err := ser.CreateEnvelope(&unmapped{})
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.MissingMapping))
}

func TestSerializeThenConvertRoundTrip(t *testing.T) {
	ser, _ := newTestSerializer(t, Callbacks{})

	env, err := ser.CreateEnvelope(&orderPlaced{ID: "ord-1"})
	require.NoError(t, err)

	wire, err := ser.Serialize(env)
	require.NoError(t, err)

	got, mapping, err := ser.ConvertToEnvelope(wire, carrier.QueueMetadata{MessageID: "mid-1"})
	require.NoError(t, err)
	require.Equal(t, "order.placed.v1", mapping.TypeID)
	require.Equal(t, "ord-1", got.Data.(*orderPlaced).ID)
	require.Equal(t, "mid-1", got.Queue.MessageID)
}

func TestConvertToEnvelopeUnwrapsNotification(t *testing.T) {
	ser, _ := newTestSerializer(t, Callbacks{})

	env, err := ser.CreateEnvelope(&orderPlaced{ID: "ord-2"})
	require.NoError(t, err)
	inner, err := ser.Serialize(env)
	require.NoError(t, err)

	wrapped := `{"Type":"Notification","MessageId":"sns-1","TopicArn":"arn:x","Message":` +
		jsonQuote(inner) + `}`

	got, _, err := ser.ConvertToEnvelope(wrapped, carrier.QueueMetadata{MessageID: "mid-2"})
	require.NoError(t, err)
	require.NotNil(t, got.Notification)
	require.Equal(t, "sns-1", got.Notification.MessageID)
	require.Equal(t, "ord-2", got.Data.(*orderPlaced).ID)
}

func TestSerializeUnmappedTypeFails(t *testing.T) {
	ser, _ := newTestSerializer(t, Callbacks{})

	env := &envelope.Envelope{
		ID: "x", Source: "urn:test", SpecVersion: envelope.SpecVersion,
		Type: "nope.v1", Time: time.Now(), Data: &orderPlaced{ID: "ord-1"},
		Metadata: envelope.NewMetadata(),
	}
	_, err := ser.Serialize(env)
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.MissingMapping))
}

func TestConvertToEnvelopeUnknownTypeFails(t *testing.T) {
	ser, _ := newTestSerializer(t, Callbacks{})
	_, _, err := ser.ConvertToEnvelope(`{"id":"x","type":"nope.v1","time":"2024-01-01T00:00:00Z"}`, carrier.QueueMetadata{})
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ConvertFailed))
}

func TestSerializeCallbackFailureStopsChain(t *testing.T) {
	boom := errors.New("boom")
	callbacks := Callbacks{
		PreSerialize: []func(*envelope.Envelope) error{
			func(*envelope.Envelope) error { return boom },
		},
	}
	ser, _ := newTestSerializer(t, callbacks)

	env, err := ser.CreateEnvelope(&orderPlaced{ID: "ord-1"})
	require.NoError(t, err)

	_, err = ser.Serialize(env)
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.SerializeFailed))
}

func TestConvertToEnvelopePostDeserializeCallbackRuns(t *testing.T) {
	var seen *envelope.Envelope
	callbacks := Callbacks{
		PostDeserialize: []func(*envelope.Envelope) error{
			func(e *envelope.Envelope) error { seen = e; return nil },
		},
	}
	ser, _ := newTestSerializer(t, callbacks)

	env, err := ser.CreateEnvelope(&orderPlaced{ID: "ord-1"})
	require.NoError(t, err)
	wire, err := ser.Serialize(env)
	require.NoError(t, err)

	_, _, err = ser.ConvertToEnvelope(wire, carrier.QueueMetadata{})
	require.NoError(t, err)
	require.NotNil(t, seen)
	require.Equal(t, "ord-1", seen.Data.(*orderPlaced).ID)
}

const malformedDataWire = `{"id":"x","source":"urn:test","specversion":"1.0","type":"order.placed.v1","time":"2024-01-01T00:00:00Z","datacontenttype":"application/json","data":{"id":123456789}}`

func TestRedactHidesJSONUnmarshalTypeCauseWhenContentLoggingDisabled(t *testing.T) {
	registry := subscriber.NewMap()
	registry.Register("order.placed.v1", func() any { return &orderPlaced{} }, codec.JSON{})
	ser := New(registry, registry, clock.System{}, idgen.UUID{}, StaticSource("urn:x"), Callbacks{},
		Options{CleanRentedBuffers: true, LogMessageContent: false})

	_, _, err := ser.ConvertToEnvelope(malformedDataWire, carrier.QueueMetadata{})
	require.Error(t, err)
	require.NotContains(t, err.Error(), "123456789")
}

func TestRedactPreservesJSONUnmarshalTypeCauseWhenContentLoggingEnabled(t *testing.T) {
	registry := subscriber.NewMap()
	registry.Register("order.placed.v1", func() any { return &orderPlaced{} }, codec.JSON{})
	ser := New(registry, registry, clock.System{}, idgen.UUID{}, StaticSource("urn:x"), Callbacks{},
		Options{CleanRentedBuffers: true, LogMessageContent: true})

	_, _, err := ser.ConvertToEnvelope(malformedDataWire, carrier.QueueMetadata{})
	var typeErr *json.UnmarshalTypeError
	require.ErrorAs(t, err, &typeErr)
	require.True(t, errors.Is(err, errs.ConvertFailed))
}

// jsonQuote renders s as a JSON string literal, used to embed an
// already-serialized envelope inside a notification wrapper's Message
// field in test fixtures.
func jsonQuote(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for _, r := range s {
		switch r {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		default:
			out = append(out, string(r)...)
		}
	}
	out = append(out, '"')
	return string(out)
}
