package appointment

import (
	"time"

	"github.com/sirena/sirena/pkg/listquery"
)

// Appointment is one scheduled service session. Client and provider names are
// denormalized onto the record so list views and exports never join.
type Appointment struct {
	ID              int64     `db:"id" json:"id"`
	ClientID        int64     `db:"client_id" json:"client_id"`
	ClientName      string    `db:"client_name" json:"client_name"`
	ProviderID      int64     `db:"provider_id" json:"provider_id"`
	ProviderName    string    `db:"provider_name" json:"provider_name"`
	SessionType     string    `db:"session_type" json:"session_type"`
	Start           time.Time `db:"start_at" json:"start"`
	End             time.Time `db:"end_at" json:"end"`
	Location        string    `db:"location" json:"location,omitempty"`
	CPTCode         string    `db:"cpt_code" json:"cpt_code,omitempty"`
	Units           int       `db:"units" json:"units,omitempty"`
	AuthorizationID int64     `db:"authorization_id" json:"authorization_id,omitempty"`
	Notes           string    `db:"notes" json:"notes,omitempty"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

const (
	TypeABASession     = "aba_session"
	TypeParentTraining = "parent_training"
	TypeAssessment     = "assessment"
	TypeSupervision    = "supervision"
)

// validTransitions is the appointment lifecycle: scheduled is the only state
// with exits. Completed, cancelled and no-show are terminal; the only way
// back onto the calendar is Reschedule, which issues a fresh scheduled slot.
var validTransitions = map[string][]string{
	StatusScheduled: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// CanTransition reports whether status from may move to to.
func CanTransition(from, to string) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Query holds the list-view filters for appointments.
type Query struct {
	Search      string
	Status      string
	SessionType string
	ProviderID  string
	ClientID    string
	From        *time.Time
	To          *time.Time
	Sort        listquery.Sort
}
