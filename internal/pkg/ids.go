package pkg

import "github.com/google/uuid"

// GenerateRenderHandle returns an opaque identifier for a delivered board message.
func GenerateRenderHandle() string {
	return uuid.NewString()
}

// GenerateRequestToken returns an identifier for an inbound request that has none.
func GenerateRequestToken() string {
	return uuid.NewString()
}
