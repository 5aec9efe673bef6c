// Package uuid wraps github.com/google/uuid for binding in gin handlers
// and derives stable identifiers for values that are never persisted.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

type UUID struct {
	google_uuid.UUID
}

var Nil UUID

func New() UUID {
	return UUID{google_uuid.New()}
}

// Derive returns the name based (SHA-1, version 5) UUID for name in the
// namespace. The same inputs always yield the same UUID.
func Derive(namespace google_uuid.UUID, name string) google_uuid.UUID {
	return google_uuid.NewSHA1(namespace, []byte(name))
}

// UnmarshalParam implements the uuid.Parse method
// from https://pkg.go.dev/github.com/google/uuid#Parse
// for UUID
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, e := google_uuid.Parse(p)
	if e != nil {
		return e
	}

	*u = UUID{parsed}
	return nil
}
