package note

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("note not found")

type Repository interface {
	Create(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, id int64) (*Note, error)
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, id int64) error
	// Search returns the page of matching notes, the number of matches, and
	// the unfiltered store size.
	Search(ctx context.Context, q Query, limit, offset int) ([]*Note, int, int, error)
}
