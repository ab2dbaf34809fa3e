package client

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("client not found")

type Repository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id int64) (*Client, error)
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id int64) error
	// Search returns the page of matching clients, the number of matches,
	// and the unfiltered store size.
	Search(ctx context.Context, q Query, limit, offset int) ([]*Client, int, int, error)
}
