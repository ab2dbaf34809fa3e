package client

import (
	"time"

	"github.com/sirena/sirena/pkg/listquery"
)

// Client is a person receiving services. Dates of birth are calendar dates
// and travel as YYYY-MM-DD strings.
type Client struct {
	ID                int64      `db:"id" json:"id"`
	FirstName         string     `db:"first_name" json:"first_name"`
	LastName          string     `db:"last_name" json:"last_name"`
	DOB               string     `db:"dob" json:"dob"`
	Gender            string     `db:"gender" json:"gender,omitempty"`
	Phone             string     `db:"phone" json:"phone,omitempty"`
	Email             string     `db:"email" json:"email,omitempty"`
	Address           string     `db:"address" json:"address,omitempty"`
	Status            string     `db:"status" json:"status"`
	InsurancePayer    string     `db:"insurance_payer" json:"insurance_payer,omitempty"`
	InsuranceMemberID string     `db:"insurance_member_id" json:"insurance_member_id,omitempty"`
	ProviderID        int64      `db:"provider_id" json:"provider_id,omitempty"`
	ProviderName      string     `db:"provider_name" json:"provider_name,omitempty"`
	LastVisit         *time.Time `db:"last_visit" json:"last_visit,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

// Query holds the list-view filters for clients.
type Query struct {
	Search     string
	Status     string
	ProviderID string
	Sort       listquery.Sort
}

// FullName returns "First Last" for display and export.
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}
