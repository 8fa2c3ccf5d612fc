package codec

import (
	"encoding/json"
	"fmt"

	"github.com/mailru/easyjson/jwriter"
)

// JSON is the default codec: UTF8-capable, backed by encoding/json. It is
// the right choice for any message type that doesn't ship its own
// easyjson-generated marshaler — correct for every message type, merely
// not the fastest possible for large ones.
type JSON struct{}

// Kind reports KindUTF8: JSON can write directly into the envelope
// writer's buffer and deserialize straight from a zero-copy slice.
func (JSON) Kind() Kind { return KindUTF8 }

// ContentType is always "application/json".
func (JSON) ContentType() string { return "application/json" }

// Serialize marshals v with encoding/json.
func (JSON) Serialize(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: json serialize: %w", err)
	}
	return data, nil
}

// Deserialize unmarshals data into target with encoding/json.
func (JSON) Deserialize(data []byte, target any) error {
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("codec: json deserialize: %w", err)
	}
	return nil
}

// WriteTo marshals v and splices the resulting bytes directly into w as a
// raw JSON value, avoiding a second copy through the envelope writer.
func (JSON) WriteTo(w *jwriter.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("codec: json write: %w", err)
	}
	w.Raw(data, nil)
	return nil
}

// DeserializeUTF8 unmarshals data (a zero-copy slice into the backing
// envelope buffer) directly into target.
func (JSON) DeserializeUTF8(data []byte, target any) error {
	return JSON{}.Deserialize(data, target)
}

var (
	_ Codec       = JSON{}
	_ UTF8Capable = JSON{}
)
