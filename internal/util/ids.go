package util

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewJobID returns a URL-safe identifier for queued link jobs.
func NewJobID() (string, error) {
	return gonanoid.New()
}
