package deposit

import (
	"context"
	"time"
)

// Store keeps deposit sessions for the lifetime of their window.
// Get returns ErrSessionNotFound when id is unknown or has been evicted.
type Store interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
