// Package uuid wraps github.com/google/uuid with version 7 (time-ordered)
// UUIDs as the default.
package uuid

import (
	"github.com/google/uuid"
)

// UUID is github.com/google/uuid.UUID.
type UUID = uuid.UUID

// NewRandom returns a new UUIDv7.
func NewRandom() (UUID, error) {
	return uuid.NewV7()
}

// New returns a new UUIDv7 and panics if generation fails.
func New() UUID {
	uuidv7, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return uuidv7
}

// Parse parses s into a UUID.
func Parse(s string) (UUID, error) {
	return uuid.Parse(s)
}

// IsUUIDv7 reports whether id is a version 7 UUID.
func IsUUIDv7(id UUID) bool {
	return id.Version() == uuid.Version(7)
}

// Nil is the zero UUID value.
var Nil = uuid.Nil
