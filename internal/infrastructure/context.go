package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

// NewRunID creates a new unique analysis run ID using UUID v4
func NewRunID() string {
	return uuid.New().String()
}

// EnsureRunID ensures the context has a run ID, generating one if needed.
// It returns the context and the ID in use.
func EnsureRunID(ctx context.Context) (context.Context, string) {
	if id := GetRunID(ctx); id != "" {
		return ctx, id
	}
	id := NewRunID()
	return WithRunID(ctx, id), id
}
