package billing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sirena/sirena/pkg/fielderr"
)

func newTestService(seed []*Invoice) *Service {
	return NewService(NewRepoMem(seed), NewClaimRepoMem(nil), zerolog.Nop())
}

func invoice() *Invoice {
	return &Invoice{
		ClientID: 1, ClientName: "Mia Alvarez",
		ServiceDate: at("2026-08-24"), CPTCode: "97153", Units: 8,
		TotalCents: 38400,
	}
}

func TestCreateDefaultsDraft(t *testing.T) {
	s := newTestService(nil)
	inv, err := s.Create(context.Background(), invoice())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.Status != StatusDraft {
		t.Errorf("status = %q, want draft", inv.Status)
	}
}

func TestCreateAcceptsInvoiceLifecycleStatuses(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	for _, status := range []string{StatusDraft, StatusSent, StatusOverdue} {
		inv := invoice()
		inv.Status = status
		got, err := s.Create(ctx, inv)
		if err != nil {
			t.Fatalf("create with status %q: %v", status, err)
		}
		if got.Status != status {
			t.Errorf("status = %q, want %q", got.Status, status)
		}
	}
	inv := invoice()
	inv.Status = "submitted"
	if _, err := s.Create(ctx, inv); err == nil {
		t.Error("claim-side status on an invoice should fail validation")
	}
}

func TestCreateRejectsNonPositiveTotal(t *testing.T) {
	s := newTestService(nil)
	inv := invoice()
	inv.TotalCents = 0
	_, err := s.Create(context.Background(), inv)
	var fe fielderr.Errors
	if !errors.As(err, &fe) {
		t.Fatalf("expected fielderr.Errors, got %v", err)
	}
	if _, ok := fe["total_cents"]; !ok {
		t.Error("expected total_cents error")
	}
}

func TestPartialPaymentAccumulates(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	inv, _ := s.Create(ctx, invoice())

	got, err := s.RecordPayment(ctx, inv.ID, &Payment{AmountCents: 10000, Method: "eft"})
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if got.PaidCents != 10000 {
		t.Errorf("paid = %d, want 10000", got.PaidCents)
	}
	if got.Status != StatusPartial {
		t.Errorf("status = %q, want partial", got.Status)
	}
	if got.BalanceCents() != 28400 {
		t.Errorf("balance = %d, want 28400", got.BalanceCents())
	}

	got, err = s.RecordPayment(ctx, inv.ID, &Payment{AmountCents: 8400})
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if got.PaidCents != 18400 || got.Status != StatusPartial {
		t.Errorf("after second payment: paid=%d status=%q", got.PaidCents, got.Status)
	}
}

func TestExactPaymentSettles(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	inv, _ := s.Create(ctx, invoice())

	got, err := s.RecordPayment(ctx, inv.ID, &Payment{AmountCents: 38400})
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if got.Status != StatusPaid {
		t.Errorf("status = %q, want paid", got.Status)
	}
	if got.BalanceCents() != 0 {
		t.Errorf("balance = %d, want 0", got.BalanceCents())
	}
}

func TestOverpaymentStillPaid(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	inv, _ := s.Create(ctx, invoice())

	got, err := s.RecordPayment(ctx, inv.ID, &Payment{AmountCents: 50000})
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if got.Status != StatusPaid {
		t.Errorf("status = %q, want paid", got.Status)
	}
	if got.PaidCents != 50000 {
		t.Errorf("paid = %d, payment record must not be truncated", got.PaidCents)
	}
	if got.BalanceCents() != 0 {
		t.Errorf("balance = %d, overpayment must clamp to 0", got.BalanceCents())
	}
}

func TestRecordPaymentRejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	inv, _ := s.Create(ctx, invoice())
	if _, err := s.RecordPayment(ctx, inv.ID, &Payment{AmountCents: 0}); err == nil {
		t.Error("expected zero payment to fail")
	}
	if _, err := s.RecordPayment(ctx, inv.ID, &Payment{AmountCents: -100}); err == nil {
		t.Error("expected negative payment to fail")
	}
}

func TestPaymentsAreKept(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	inv, _ := s.Create(ctx, invoice())
	s.RecordPayment(ctx, inv.ID, &Payment{AmountCents: 10000, Method: "eft", Reference: "ERA-1"})
	s.RecordPayment(ctx, inv.ID, &Payment{AmountCents: 5000, Method: "check"})

	payments, err := s.Payments(ctx, inv.ID)
	if err != nil {
		t.Fatalf("payments: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("len = %d, want 2", len(payments))
	}
	if payments[0].AmountCents+payments[1].AmountCents != 15000 {
		t.Error("payment amounts do not sum")
	}
}

func TestUpdateStatusRejectsDerivedStates(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	inv, _ := s.Create(ctx, invoice())

	if _, err := s.UpdateStatus(ctx, inv.ID, StatusPaid); err == nil {
		t.Error("setting paid by hand should fail")
	}
	if _, err := s.UpdateStatus(ctx, inv.ID, StatusPartial); err == nil {
		t.Error("setting partial by hand should fail")
	}
	got, err := s.UpdateStatus(ctx, inv.ID, StatusSent)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.Status != StatusSent {
		t.Errorf("status = %q", got.Status)
	}
	got, err = s.UpdateStatus(ctx, inv.ID, StatusOverdue)
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if got.Status != StatusOverdue {
		t.Errorf("status = %q", got.Status)
	}
}

func claim() *Claim {
	return &Claim{
		ClientID: 1, ClientName: "Mia Alvarez", PayerName: "Aetna",
		ClaimNumber: "CLM-2026-0812", CPTCode: "97153", Units: 8,
		AmountCents: 38400,
	}
}

func TestCreateClaimDefaultsPending(t *testing.T) {
	s := newTestService(nil)
	cl, err := s.CreateClaim(context.Background(), claim())
	if err != nil {
		t.Fatalf("create claim: %v", err)
	}
	if cl.Status != ClaimStatusPending {
		t.Errorf("status = %q, want pending", cl.Status)
	}
}

func TestCreateClaimValidates(t *testing.T) {
	s := newTestService(nil)
	cl := claim()
	cl.PayerName = ""
	cl.AmountCents = 0
	_, err := s.CreateClaim(context.Background(), cl)
	var fe fielderr.Errors
	if !errors.As(err, &fe) {
		t.Fatalf("expected fielderr.Errors, got %v", err)
	}
	for _, field := range []string{"payer_name", "amount_cents"} {
		if _, ok := fe[field]; !ok {
			t.Errorf("expected %s error", field)
		}
	}
}

func TestClaimStatusWorkflow(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	cl, _ := s.CreateClaim(ctx, claim())

	got, err := s.UpdateClaimStatus(ctx, cl.ID, ClaimStatusSubmitted)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.Status != ClaimStatusSubmitted || got.SubmittedAt == nil {
		t.Fatalf("submission not stamped: %+v", got)
	}
	stamped := *got.SubmittedAt

	got, err = s.UpdateClaimStatus(ctx, cl.ID, ClaimStatusAccepted)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if got.Status != ClaimStatusAccepted {
		t.Errorf("status = %q, want accepted", got.Status)
	}
	if got.SubmittedAt == nil || !got.SubmittedAt.Equal(stamped) {
		t.Error("submission stamp changed after acceptance")
	}

	if _, err := s.UpdateClaimStatus(ctx, cl.ID, "overdue"); err == nil {
		t.Error("invoice-side status on a claim should fail validation")
	}
}

func TestClaimsAreSeparateFromInvoices(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	s.Create(ctx, invoice())
	s.CreateClaim(ctx, claim())

	invoices, _, _, _ := s.Search(ctx, Query{}, 0, 0)
	claims, _, _, _ := s.SearchClaims(ctx, ClaimQuery{}, 0, 0)
	if len(invoices) != 1 || len(claims) != 1 {
		t.Errorf("invoices=%d claims=%d, want one of each", len(invoices), len(claims))
	}
	if _, err := s.GetClaim(ctx, 999); !errors.Is(err, ErrClaimNotFound) {
		t.Errorf("unknown claim: got %v, want ErrClaimNotFound", err)
	}
}

func TestDollars(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{38400, "$384.00"},
		{-2550, "-$25.50"},
	}
	for _, tc := range cases {
		if got := Dollars(tc.cents); got != tc.want {
			t.Errorf("Dollars(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestDocumentShowsBalance(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	inv, _ := s.Create(ctx, invoice())
	s.RecordPayment(ctx, inv.ID, &Payment{AmountCents: 10000, Method: "eft"})

	got, _ := s.Get(ctx, inv.ID)
	payments, _ := s.Payments(ctx, inv.ID)
	doc := got.Document(payments)
	for _, want := range []string{"INVOICE", "Mia Alvarez", "Total:   $384.00", "Paid:    $100.00", "Balance: $284.00"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}
