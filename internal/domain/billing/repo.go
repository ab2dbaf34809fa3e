package billing

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("invoice not found")
	ErrClaimNotFound = errors.New("claim not found")
)

type Repository interface {
	Create(ctx context.Context, i *Invoice) error
	GetByID(ctx context.Context, id int64) (*Invoice, error)
	Update(ctx context.Context, i *Invoice) error
	Delete(ctx context.Context, id int64) error
	// Search returns the page of matching invoices, the number of matches,
	// and the unfiltered store size.
	Search(ctx context.Context, q Query, limit, offset int) ([]*Invoice, int, int, error)

	AddPayment(ctx context.Context, p *Payment) error
	PaymentsForInvoice(ctx context.Context, invoiceID int64) ([]*Payment, error)
}

type ClaimRepository interface {
	Create(ctx context.Context, cl *Claim) error
	GetByID(ctx context.Context, id int64) (*Claim, error)
	Update(ctx context.Context, cl *Claim) error
	Delete(ctx context.Context, id int64) error
	// Search returns the page of matching claims, the number of matches, and
	// the unfiltered store size.
	Search(ctx context.Context, q ClaimQuery, limit, offset int) ([]*Claim, int, int, error)
}
