package notification

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("notification not found")

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	// ListForUser returns the user's notifications newest first, plus the
	// unread count.
	ListForUser(ctx context.Context, userID string) ([]*Notification, int, error)
	MarkRead(ctx context.Context, userID string, id int64) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID string, id int64) error
	ClearAll(ctx context.Context, userID string) (int, error)
}
