package admin

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
	// Search returns the page of matching users, the number of matches, and
	// the unfiltered store size.
	Search(ctx context.Context, q Query, limit, offset int) ([]*User, int, int, error)
}
