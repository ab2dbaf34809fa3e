package notification

import "time"

// Notification is an in-app message for one user.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Kind      string    `db:"kind" json:"kind"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body,omitempty"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	KindNoteDue     = "note_due"
	KindCosign      = "cosign_request"
	KindAuthExpiry  = "authorization_expiry"
	KindClaimDenied = "claim_denied"
	KindSystem      = "system"
)
