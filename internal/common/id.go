package common

import (
	"github.com/google/uuid"
)

// NewID generates a unique identifier for notebooks, sources, and notes
func NewID() string {
	return uuid.New().String()
}

// NewChunkID generates a unique chunk identifier with the "chunk_" prefix.
// Every indexed chunk gets a fresh random identity; ordinal position lives
// in the chunk metadata, not in the id.
func NewChunkID() string {
	return "chunk_" + uuid.New().String()
}
