package auditevent

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("audit event not found")

type Repository interface {
	Append(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	// Search returns the page of matching events, the number of matches, and
	// the unfiltered store size.
	Search(ctx context.Context, q Query, limit, offset int) ([]*Event, int, int, error)
}
