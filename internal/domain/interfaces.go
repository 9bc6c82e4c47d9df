package domain

import (
	"context"
)

// ReadingRepository handles persistent storage of readings in the remote store.
type ReadingRepository interface {
	List(ctx context.Context) ([]Reading, error)
	Create(ctx context.Context, reading Reading) error
	Update(ctx context.Context, reading Reading) error
	Delete(ctx context.Context, id string) error
}
