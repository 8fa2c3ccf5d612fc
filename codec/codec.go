// Package codec defines the message-codec collaborator contract: how the
// orchestrator turns a typed application message into wire bytes and back.
//
// Dynamic dispatch on codec capability is replaced by a tagged variant
// (Kind) rather than a runtime type probe for every call: a codec declares
// up front whether it is a plain string-codec or additionally implements
// the UTF8Capable fast path, and the orchestrator branches on Kind once.
package codec

import "github.com/mailru/easyjson/jwriter"

// Kind tags a Codec's capability.
type Kind int

const (
	// KindString codecs only support Serialize/Deserialize over []byte.
	KindString Kind = iota
	// KindUTF8 codecs additionally support writing directly into the
	// envelope writer's buffer and deserializing straight from a
	// zero-copy slice.
	KindUTF8
)

// Codec serializes and deserializes the message carried in an envelope's
// data property.
type Codec interface {
	// Kind reports which capability tier this codec implements.
	Kind() Kind
	// ContentType is the MIME type this codec declares for data it
	// produces, e.g. "application/json".
	ContentType() string
	// Serialize turns v into wire bytes.
	Serialize(v any) ([]byte, error)
	// Deserialize decodes data into target, which must be a pointer to
	// the message's concrete type.
	Deserialize(data []byte, target any) error
}

// UTF8Capable is implemented by codecs with Kind() == KindUTF8. The
// envelope writer calls WriteTo directly so the codec's output lands in
// the same buffer as the rest of the envelope, with no intermediate
// allocation; the envelope reader calls DeserializeUTF8 directly against
// the zero-copy data slice it captured.
type UTF8Capable interface {
	Codec
	WriteTo(w *jwriter.Writer, v any) error
	DeserializeUTF8(data []byte, target any) error
}

// AsUTF8Capable returns c's UTF8Capable view when c.Kind() == KindUTF8,
// or ok=false otherwise. The orchestrator uses this single type assertion
// instead of probing for capability on every call.
func AsUTF8Capable(c Codec) (UTF8Capable, bool) {
	if c.Kind() != KindUTF8 {
		return nil, false
	}
	u, ok := c.(UTF8Capable)
	return u, ok
}
