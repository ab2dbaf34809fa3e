package authorization

import (
	"time"

	"github.com/sirena/sirena/pkg/listquery"
)

// Authorization is a payer approval for a block of service units within a
// date window. Completed sessions draw units down; the status derives from
// usage and the calendar.
type Authorization struct {
	ID         int64     `db:"id" json:"id"`
	ClientID   int64     `db:"client_id" json:"client_id"`
	ClientName string    `db:"client_name" json:"client_name"`
	PayerName  string    `db:"payer_name" json:"payer_name,omitempty"`
	AuthNumber string    `db:"auth_number" json:"auth_number"`
	CPTCode    string    `db:"cpt_code" json:"cpt_code,omitempty"`
	TotalUnits int       `db:"total_units" json:"total_units"`
	UsedUnits  int       `db:"used_units" json:"used_units"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDate    time.Time `db:"end_date" json:"end_date"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

const (
	StatusActive    = "active"
	StatusExhausted = "exhausted"
	StatusExpired   = "expired"
)

// RemainingUnits never reports below zero.
func (a *Authorization) RemainingUnits() int {
	if a.UsedUnits >= a.TotalUnits {
		return 0
	}
	return a.TotalUnits - a.UsedUnits
}

// PercentUsed reports whole-number utilization, capped at 100.
func (a *Authorization) PercentUsed() int {
	if a.TotalUnits <= 0 {
		return 0
	}
	p := a.UsedUnits * 100 / a.TotalUnits
	if p > 100 {
		return 100
	}
	return p
}

// ExpiresWithin reports whether the window closes within d of now, counting
// already-closed windows.
func (a *Authorization) ExpiresWithin(now time.Time, d time.Duration) bool {
	return a.EndDate.Before(now.Add(d))
}

// Query holds the list-view filters for authorizations.
type Query struct {
	Search   string
	Status   string
	ClientID string
	Sort     listquery.Sort
}
