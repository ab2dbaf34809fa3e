package billing

import (
	"time"

	"github.com/sirena/sirena/pkg/listquery"
)

// Claim is a reimbursement submission to a payer, tracked separately from the
// client-facing invoice it bills for.
type Claim struct {
	ID          int64      `db:"id" json:"id"`
	InvoiceID   int64      `db:"invoice_id" json:"invoice_id,omitempty"`
	ClientID    int64      `db:"client_id" json:"client_id"`
	ClientName  string     `db:"client_name" json:"client_name"`
	PayerName   string     `db:"payer_name" json:"payer_name"`
	ClaimNumber string     `db:"claim_number" json:"claim_number"`
	CPTCode     string     `db:"cpt_code" json:"cpt_code,omitempty"`
	Units       int        `db:"units" json:"units,omitempty"`
	AmountCents int64      `db:"amount_cents" json:"amount_cents"`
	Status      string     `db:"status" json:"status"`
	SubmittedAt *time.Time `db:"submitted_at" json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	ClaimStatusPending   = "pending"
	ClaimStatusSubmitted = "submitted"
	ClaimStatusAccepted  = "accepted"
	ClaimStatusDenied    = "denied"
	ClaimStatusPaid      = "paid"
)

// ClaimQuery holds the list-view filters for claims.
type ClaimQuery struct {
	Search   string
	Status   string
	ClientID string
	Sort     listquery.Sort
}
