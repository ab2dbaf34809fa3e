package auditevent

import (
	"time"

	"github.com/sirena/sirena/pkg/listquery"
)

// Event is one recorded access to the API. Events are append-only; nothing
// updates or deletes them.
type Event struct {
	ID         int64     `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	UserName   string    `db:"user_name" json:"user_name"`
	Resource   string    `db:"resource" json:"resource"`
	Action     string    `db:"action" json:"action"`
	Method     string    `db:"method" json:"method"`
	Path       string    `db:"path" json:"path"`
	IPAddress  string    `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent  string    `db:"user_agent" json:"user_agent,omitempty"`
	RequestID  string    `db:"request_id" json:"request_id,omitempty"`
	StatusCode int       `db:"status_code" json:"status_code"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
}

// Query holds the list-view filters for the audit log.
type Query struct {
	Search   string
	Action   string
	Resource string
	UserID   string
	From     *time.Time
	To       *time.Time
	Sort     listquery.Sort
}
