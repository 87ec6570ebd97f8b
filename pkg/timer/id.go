package timer

import "github.com/google/uuid"

// IDGenerator produces globally unique timer identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random (version 4) UUIDs.
type UUIDGenerator struct{}

// NewID returns a new UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// ValidID reports whether id is a well-formed UUID as produced by
// UUIDGenerator.
func ValidID(id string) bool {
	u, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	// uuid.Parse also accepts the braced and urn: forms.
	return u.String() == id
}
