// Package errs defines the sentinel error kinds raised across the
// envelope serialization core. Call sites use errors.Is to
// discriminate kind; the original cause is preserved via %w except where
// redaction applies.
package errs

import "errors"

// Sentinel kinds. Wrap one of these with fmt.Errorf("...: %w", err) to
// attach context while keeping errors.Is(err, errs.InvalidData) etc. true.
var (
	// MissingMapping: no publisher/subscriber mapping for a type.
	MissingMapping = errors.New("missing mapping")
	// InvalidData: envelope JSON malformed, a required field is missing,
	// the timestamp is unparseable, or the type is unresolvable.
	InvalidData = errors.New("invalid data")
	// SerializeFailed: any exception from writer, codec, or callback
	// during serialize.
	SerializeFailed = errors.New("serialize failed")
	// ConvertFailed: any exception during outer/inner parse, codec, or
	// callback during convert.
	ConvertFailed = errors.New("convert failed")
	// NullMessage: envelope.Data is absent at serialize time.
	NullMessage = errors.New("null message")
)
