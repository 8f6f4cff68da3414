package utils

import (
	"context"

	"github.com/google/uuid"
)

// GenerateID returns a new random UUID used for users, listings, bids, reviews and images
func GenerateID() string {
	return uuid.NewString()
}

type requestIDKey struct{}

// WithRequestID stores the request id so repository logs can be correlated
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFrom returns the request id stored by WithRequestID, or ""
func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
