package controls

import "context"

// Store persists control sessions.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	// GetByBlock returns the most recent non-superseded session for a
	// block, or ErrSessionNotFound.
	GetByBlock(ctx context.Context, blockID string) (*Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
