package envelope

import (
	"fmt"

	"github.com/adred-codev/envelopes/codec"
	"github.com/adred-codev/envelopes/contenttype"
	"github.com/adred-codev/envelopes/errs"
	"github.com/mailru/easyjson/jwriter"
)

// timeLayout renders an ISO-8601 timestamp with an explicit numeric
// offset (e.g. "2023-10-01T12:00:00+00:00"), never the "Z" shorthand.
const timeLayout = "2006-01-02T15:04:05.999999999-07:00"

// Write emits e into w as a canonical event envelope: the seven known
// properties in order, followed by metadata in insertion order. It never
// validates the shape it writes — the writer controls that by
// construction.
func Write(w *jwriter.Writer, e *Envelope, c codec.Codec) error {
	if e.Data == nil {
		return errs.NullMessage
	}

	w.RawByte('{')

	w.RawString(`"id":`)
	w.String(e.ID)

	if e.Source != "" {
		w.RawString(`,"source":`)
		w.String(e.Source)
	}

	w.RawString(`,"specversion":"` + SpecVersion + `"`)

	w.RawString(`,"type":`)
	w.String(e.Type)

	w.RawString(`,"time":`)
	w.String(e.Time.Format(timeLayout))

	if u, ok := codec.AsUTF8Capable(c); ok {
		w.RawString(`,"datacontenttype":`)
		w.String(u.ContentType())
		w.RawString(`,"data":`)
		if err := u.WriteTo(w, e.Data); err != nil {
			return fmt.Errorf("envelope: codec write failed: %w", err)
		}
	} else {
		data, err := c.Serialize(e.Data)
		if err != nil {
			return fmt.Errorf("envelope: codec serialize failed: %w", err)
		}
		w.RawString(`,"datacontenttype":`)
		w.String(c.ContentType())
		w.RawString(`,"data":`)
		if contenttype.IsJSON(c.ContentType()) {
			w.Raw(data, nil)
		} else {
			w.String(string(data))
		}
	}

	if e.Metadata != nil {
		e.Metadata.Range(func(key string, value []byte) bool {
			w.RawByte(',')
			w.String(key)
			w.RawByte(':')
			w.Raw(value, nil)
			return true
		})
	}

	w.RawByte('}')
	return nil
}

// Serialize is the convenience entry point: it runs Write over a fresh
// jwriter.Writer and returns the resulting UTF-8 string.
func Serialize(e *Envelope, c codec.Codec) (string, error) {
	w := &jwriter.Writer{NoEscapeHTML: true}
	if err := Write(w, e, c); err != nil {
		return "", err
	}
	data, err := w.BuildBytes()
	if err != nil {
		return "", fmt.Errorf("envelope: flush failed: %w", err)
	}
	return string(data), nil
}
