package utils

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// GenerateRequestID generates a unique request ID (16 hex characters)
func GenerateRequestID() string {
	return generateHex(8)
}

// GenerateCorrelationID generates a UUID for correlation tracking
func GenerateCorrelationID() string {
	return uuid.New().String()
}

// generateHex generates a random hex string of the given byte length
func generateHex(byteLength int) string {
	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		// crypto/rand failing is unrecoverable for ID generation; a UUID
		// still gives us a usable identifier.
		return uuid.New().String()
	}
	return hex.EncodeToString(bytes)
}
