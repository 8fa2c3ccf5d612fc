package codec

import "fmt"

// Text is a string-codec for messages carried as plain text (or any
// non-JSON-shaped content type). It requires the message type to be
// string or []byte on write, and decodes into a *string or *[]byte on
// read.
type Text struct {
	// MIME is the declared content type, e.g. "text/plain".
	MIME string
}

// Kind reports KindString: Text has no writer/reader fast path, so the
// orchestrator always routes it through Serialize/Deserialize.
func (Text) Kind() Kind { return KindString }

// ContentType returns the configured MIME type, defaulting to
// "text/plain" when unset.
func (t Text) ContentType() string {
	if t.MIME == "" {
		return "text/plain"
	}
	return t.MIME
}

// Serialize accepts string or []byte and returns it verbatim as bytes.
func (Text) Serialize(v any) ([]byte, error) {
	switch val := v.(type) {
	case string:
		return []byte(val), nil
	case []byte:
		return val, nil
	default:
		return nil, fmt.Errorf("codec: text codec cannot serialize %T", v)
	}
}

// Deserialize decodes into *string or *[]byte.
func (Text) Deserialize(data []byte, target any) error {
	switch t := target.(type) {
	case *string:
		*t = string(data)
		return nil
	case *[]byte:
		*t = append((*t)[:0], data...)
		return nil
	default:
		return fmt.Errorf("codec: text codec cannot deserialize into %T", target)
	}
}

var _ Codec = Text{}
