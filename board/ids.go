// ABOUTME: Identifier generators for rules and cards: ULID by default, UUIDv4 on request.
// ABOUTME: Both use crypto/rand entropy so ids are globally unique across restarts.
package board

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDGenerator produces a new globally unique identifier on every call.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a plain function to IDGenerator.
type IDGeneratorFunc func() string

// NewID calls f.
func (f IDGeneratorFunc) NewID() string { return f() }

// ULIDGenerator yields lexicographically time-ordered ULIDs, so key-ordered
// stores list entries roughly in creation order.
type ULIDGenerator struct{}

// NewID returns a fresh ULID string.
func (ULIDGenerator) NewID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// UUIDGenerator yields random version 4 UUIDs.
type UUIDGenerator struct{}

// NewID returns a fresh UUIDv4 string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Identifier schemes accepted by NewIDGenerator.
const (
	IDSchemeULID = "ulid"
	IDSchemeUUID = "uuid"
)

// NewIDGenerator returns the generator for scheme. An empty scheme means ULID.
func NewIDGenerator(scheme string) (IDGenerator, error) {
	switch scheme {
	case "", IDSchemeULID:
		return ULIDGenerator{}, nil
	case IDSchemeUUID:
		return UUIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q (want %q or %q)", scheme, IDSchemeULID, IDSchemeUUID)
	}
}
