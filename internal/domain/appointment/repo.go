package appointment

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("appointment not found")

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id int64) error
	// Search returns the page of matching appointments, the number of
	// matches, and the unfiltered store size.
	Search(ctx context.Context, q Query, limit, offset int) ([]*Appointment, int, int, error)
}
