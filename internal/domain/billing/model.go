package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirena/sirena/pkg/listquery"
)

// Invoice is a client-facing bill for delivered sessions. All money travels
// as integer cents; rendering to dollars happens at the edges only.
type Invoice struct {
	ID            int64     `db:"id" json:"id"`
	ClientID      int64     `db:"client_id" json:"client_id"`
	ClientName    string    `db:"client_name" json:"client_name"`
	AppointmentID int64     `db:"appointment_id" json:"appointment_id,omitempty"`
	ServiceDate   time.Time `db:"service_date" json:"service_date"`
	CPTCode       string    `db:"cpt_code" json:"cpt_code,omitempty"`
	Units         int       `db:"units" json:"units,omitempty"`
	PayerName     string    `db:"payer_name" json:"payer_name,omitempty"`
	ClaimNumber   string    `db:"claim_number" json:"claim_number,omitempty"`
	TotalCents    int64     `db:"total_cents" json:"total_cents"`
	PaidCents     int64     `db:"paid_cents" json:"paid_cents"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Invoice statuses. Paid and partial are derived from the payment ledger;
// draft, sent, and overdue move by hand.
const (
	StatusDraft   = "draft"
	StatusSent    = "sent"
	StatusPartial = "partial"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

// BalanceCents is the amount still owed. Overpayments clamp to zero.
func (i *Invoice) BalanceCents() int64 {
	if i.PaidCents >= i.TotalCents {
		return 0
	}
	return i.TotalCents - i.PaidCents
}

// Payment is one application of money against an invoice.
type Payment struct {
	ID          int64     `db:"id" json:"id"`
	InvoiceID   int64     `db:"invoice_id" json:"invoice_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Method      string    `db:"method" json:"method,omitempty"`
	Reference   string    `db:"reference" json:"reference,omitempty"`
	ReceivedAt  time.Time `db:"received_at" json:"received_at"`
}

// Query holds the list-view filters for invoices.
type Query struct {
	Search   string
	Status   string
	ClientID string
	From     *time.Time
	To       *time.Time
	Sort     listquery.Sort
}

// Dollars renders cents as a plain dollar string for exports and documents.
func Dollars(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// Document renders the invoice as a plaintext statement for download.
func (i *Invoice) Document(payments []*Payment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INVOICE #%d\n", i.ID)
	if i.ClaimNumber != "" {
		fmt.Fprintf(&b, "Claim: %s\n", i.ClaimNumber)
	}
	fmt.Fprintf(&b, "Client: %s\n", i.ClientName)
	fmt.Fprintf(&b, "Service date: %s\n", i.ServiceDate.Format("2006-01-02"))
	if i.CPTCode != "" {
		fmt.Fprintf(&b, "CPT: %s x %d units\n", i.CPTCode, i.Units)
	}
	if i.PayerName != "" {
		fmt.Fprintf(&b, "Payer: %s\n", i.PayerName)
	}
	fmt.Fprintf(&b, "Status: %s\n\n", i.Status)

	if len(payments) > 0 {
		b.WriteString("PAYMENTS\n")
		for _, p := range payments {
			fmt.Fprintf(&b, "  %s  %s", p.ReceivedAt.Format("2006-01-02"), Dollars(p.AmountCents))
			if p.Method != "" {
				fmt.Fprintf(&b, "  (%s)", p.Method)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Total:   %s\n", Dollars(i.TotalCents))
	fmt.Fprintf(&b, "Paid:    %s\n", Dollars(i.PaidCents))
	fmt.Fprintf(&b, "Balance: %s\n", Dollars(i.BalanceCents()))
	return b.String()
}
