package history

import "context"

// Store persists and retrieves runs.
type Store interface {
	Record(ctx context.Context, run Run) error
	// List returns the most recent runs first; limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]Run, error)
	Get(ctx context.Context, id string) (*Run, error)
	Close() error
}
