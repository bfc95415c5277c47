package utils

import "github.com/google/uuid"

// UUIDGenerator produces time-ordered UUID v7 strings for event, device and
// vault identifiers.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a new UUID v7, falling back to v4 if the v7 source fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// ShortSuffix returns the first 8 hex characters of a random UUID.
func ShortSuffix() string {
	return uuid.NewString()[:8]
}
