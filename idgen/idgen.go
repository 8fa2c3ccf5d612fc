// Package idgen provides the id-generator collaborator interface and a
// production RFC 4122 v4 UUID implementation.
package idgen

import (
	"crypto/rand"
	"fmt"
)

// Generator produces a non-empty identifier for each envelope.
type Generator interface {
	Next() string
}

// UUID is the production Generator, emitting RFC 4122 version-4 UUIDs.
type UUID struct{}

// Next returns a freshly generated UUIDv4 string.
func (UUID) Next() string {
	var b [16]byte
	// crypto/rand.Read on a fixed-size buffer only fails if the system
	// entropy source is broken, which this package treats as fatal rather
	// than threading an error through every id-generator call site.
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("idgen: failed to read random bytes: %v", err))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
