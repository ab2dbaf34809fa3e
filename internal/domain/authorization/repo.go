package authorization

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("authorization not found")

type Repository interface {
	Create(ctx context.Context, a *Authorization) error
	GetByID(ctx context.Context, id int64) (*Authorization, error)
	Update(ctx context.Context, a *Authorization) error
	Delete(ctx context.Context, id int64) error
	// Search returns the page of matching authorizations, the number of
	// matches, and the unfiltered store size.
	Search(ctx context.Context, q Query, limit, offset int) ([]*Authorization, int, int, error)
}
