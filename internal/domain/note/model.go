package note

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirena/sirena/pkg/listquery"
)

// Note is a clinical session note. Content fields stay editable until the
// note is signed; a signed note is immutable.
type Note struct {
	ID            int64     `db:"id" json:"id"`
	AppointmentID int64     `db:"appointment_id" json:"appointment_id,omitempty"`
	ClientID      int64     `db:"client_id" json:"client_id"`
	ClientName    string    `db:"client_name" json:"client_name"`
	ProviderID    int64     `db:"provider_id" json:"provider_id"`
	ProviderName  string    `db:"provider_name" json:"provider_name"`
	SessionDate   time.Time `db:"session_date" json:"session_date"`
	SessionType   string    `db:"session_type" json:"session_type,omitempty"`

	Objectives      string `db:"objectives" json:"objectives,omitempty"`
	Interventions   string `db:"interventions" json:"interventions,omitempty"`
	ClientResponse  string `db:"client_response" json:"client_response,omitempty"`
	Progress        string `db:"progress" json:"progress,omitempty"`
	AdditionalNotes string `db:"additional_notes" json:"additional_notes,omitempty"`

	Status            string     `db:"status" json:"status"`
	SignedBy          string     `db:"signed_by" json:"signed_by,omitempty"`
	SignedAt          *time.Time `db:"signed_at" json:"signed_at,omitempty"`
	CosignRequestedBy string     `db:"cosign_requested_by" json:"cosign_requested_by,omitempty"`
	CosignRequestedAt *time.Time `db:"cosign_requested_at" json:"cosign_requested_at,omitempty"`
	Cosigner          string     `db:"cosigner" json:"cosigner,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

const (
	StatusDraft         = "draft"
	StatusCompleted     = "completed"
	StatusPendingCosign = "pending_cosign"
	StatusSigned        = "signed"
)

// Signed reports whether the note is locked.
func (n *Note) Signed() bool {
	return n.Status == StatusSigned
}

// Content holds the editable body of a note, as sent by the editor and its
// autosave ticker.
type Content struct {
	Objectives      string `json:"objectives"`
	Interventions   string `json:"interventions"`
	ClientResponse  string `json:"client_response"`
	Progress        string `json:"progress"`
	AdditionalNotes string `json:"additional_notes"`
}

// Apply copies the editable fields onto the note.
func (c Content) Apply(n *Note) {
	n.Objectives = c.Objectives
	n.Interventions = c.Interventions
	n.ClientResponse = c.ClientResponse
	n.Progress = c.Progress
	n.AdditionalNotes = c.AdditionalNotes
}

// Query holds the list-view filters for notes.
type Query struct {
	Search     string
	Status     string
	ProviderID string
	ClientID   string
	From       *time.Time
	To         *time.Time
	Sort       listquery.Sort
}

// Document renders the note as a plaintext clinical document for download.
func (n *Note) Document() string {
	var b strings.Builder
	fmt.Fprintf(&b, "SESSION NOTE #%d\n", n.ID)
	fmt.Fprintf(&b, "Client: %s\n", n.ClientName)
	fmt.Fprintf(&b, "Provider: %s\n", n.ProviderName)
	fmt.Fprintf(&b, "Session date: %s\n", n.SessionDate.Format("2006-01-02"))
	if n.SessionType != "" {
		fmt.Fprintf(&b, "Session type: %s\n", n.SessionType)
	}
	fmt.Fprintf(&b, "Status: %s\n\n", n.Status)

	section := func(title, body string) {
		b.WriteString(strings.ToUpper(title) + "\n")
		if strings.TrimSpace(body) == "" {
			b.WriteString("(none)\n\n")
			return
		}
		b.WriteString(body + "\n\n")
	}
	section("Objectives", n.Objectives)
	section("Interventions", n.Interventions)
	section("Client response", n.ClientResponse)
	section("Progress", n.Progress)
	if strings.TrimSpace(n.AdditionalNotes) != "" {
		section("Additional notes", n.AdditionalNotes)
	}

	if n.Signed() && n.SignedAt != nil {
		fmt.Fprintf(&b, "Electronically signed by %s on %s\n",
			n.SignedBy, n.SignedAt.Format("2006-01-02 15:04 MST"))
	}
	return b.String()
}
