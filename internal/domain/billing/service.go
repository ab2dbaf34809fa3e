package billing

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirena/sirena/pkg/fielderr"
)

var validStatuses = map[string]bool{
	StatusDraft:   true,
	StatusSent:    true,
	StatusPartial: true,
	StatusPaid:    true,
	StatusOverdue: true,
}

var validClaimStatuses = map[string]bool{
	ClaimStatusPending:   true,
	ClaimStatusSubmitted: true,
	ClaimStatusAccepted:  true,
	ClaimStatusDenied:    true,
	ClaimStatusPaid:      true,
}

type Service struct {
	repo   Repository
	claims ClaimRepository
	logger zerolog.Logger
}

func NewService(repo Repository, claims ClaimRepository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, claims: claims, logger: logger.With().Str("domain", "billing").Logger()}
}

func (s *Service) validate(i *Invoice) error {
	errs := fielderr.Errors{}
	if i.ClientID == 0 {
		errs["client_id"] = "client is required"
	}
	if i.ServiceDate.IsZero() {
		errs["service_date"] = "service date is required"
	}
	if i.TotalCents <= 0 {
		errs["total_cents"] = "total must be positive"
	}
	if i.PaidCents < 0 {
		errs["paid_cents"] = "paid amount cannot be negative"
	}
	if i.Status != "" && !validStatuses[i.Status] {
		errs["status"] = "invalid status: " + i.Status
	}
	if errs.Any() {
		return errs
	}
	return nil
}

func (s *Service) Create(ctx context.Context, i *Invoice) (*Invoice, error) {
	if i.Status == "" {
		i.Status = StatusDraft
	}
	if err := s.validate(i); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("invoice_id", i.ID).Int64("total_cents", i.TotalCents).Msg("invoice created")
	return i, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, i *Invoice) (*Invoice, error) {
	if err := s.validate(i); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Search(ctx context.Context, q Query, limit, offset int) ([]*Invoice, int, int, error) {
	return s.repo.Search(ctx, q, limit, offset)
}

func (s *Service) Payments(ctx context.Context, invoiceID int64) ([]*Payment, error) {
	if _, err := s.repo.GetByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.repo.PaymentsForInvoice(ctx, invoiceID)
}

// RecordPayment applies money against the invoice. The paid amount only ever
// accumulates; the invoice lands on paid exactly when the running total
// covers the full amount, and on partial otherwise.
func (s *Service) RecordPayment(ctx context.Context, invoiceID int64, p *Payment) (*Invoice, error) {
	if p.AmountCents <= 0 {
		return nil, fielderr.Errors{"amount_cents": "payment amount must be positive"}
	}
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	p.InvoiceID = invoiceID
	if err := s.repo.AddPayment(ctx, p); err != nil {
		return nil, err
	}

	inv.PaidCents += p.AmountCents
	if inv.PaidCents >= inv.TotalCents {
		inv.Status = StatusPaid
	} else {
		inv.Status = StatusPartial
	}
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info().
		Int64("invoice_id", inv.ID).
		Int64("amount_cents", p.AmountCents).
		Str("status", inv.Status).
		Msg("payment recorded")
	return inv, nil
}

// UpdateStatus moves the invoice between its hand-set states (draft, sent,
// overdue). Paid and partial are derived from payments and cannot be set by
// hand.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*Invoice, error) {
	if !validStatuses[status] {
		return nil, fielderr.Errors{"status": "invalid status: " + status}
	}
	if status == StatusPaid || status == StatusPartial {
		return nil, fielderr.Errors{"status": "status " + status + " is derived from payments"}
	}
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Status = status
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("invoice_id", inv.ID).Str("status", status).Msg("invoice status changed")
	return inv, nil
}

func (s *Service) validateClaim(cl *Claim) error {
	errs := fielderr.Errors{}
	if cl.ClientID == 0 {
		errs["client_id"] = "client is required"
	}
	if cl.PayerName == "" {
		errs["payer_name"] = "payer is required"
	}
	if cl.ClaimNumber == "" {
		errs["claim_number"] = "claim number is required"
	}
	if cl.AmountCents <= 0 {
		errs["amount_cents"] = "claim amount must be positive"
	}
	if cl.Status != "" && !validClaimStatuses[cl.Status] {
		errs["status"] = "invalid status: " + cl.Status
	}
	if errs.Any() {
		return errs
	}
	return nil
}

func (s *Service) CreateClaim(ctx context.Context, cl *Claim) (*Claim, error) {
	if cl.Status == "" {
		cl.Status = ClaimStatusPending
	}
	if err := s.validateClaim(cl); err != nil {
		return nil, err
	}
	if err := s.claims.Create(ctx, cl); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("claim_id", cl.ID).Str("claim_number", cl.ClaimNumber).Msg("claim created")
	return cl, nil
}

func (s *Service) GetClaim(ctx context.Context, id int64) (*Claim, error) {
	return s.claims.GetByID(ctx, id)
}

func (s *Service) UpdateClaim(ctx context.Context, cl *Claim) (*Claim, error) {
	if err := s.validateClaim(cl); err != nil {
		return nil, err
	}
	if err := s.claims.Update(ctx, cl); err != nil {
		return nil, err
	}
	return cl, nil
}

func (s *Service) DeleteClaim(ctx context.Context, id int64) error {
	return s.claims.Delete(ctx, id)
}

func (s *Service) SearchClaims(ctx context.Context, q ClaimQuery, limit, offset int) ([]*Claim, int, int, error) {
	return s.claims.Search(ctx, q, limit, offset)
}

// UpdateClaimStatus moves the claim through the payer workflow. Entering
// submitted stamps the submission time once.
func (s *Service) UpdateClaimStatus(ctx context.Context, id int64, status string) (*Claim, error) {
	if !validClaimStatuses[status] {
		return nil, fielderr.Errors{"status": "invalid status: " + status}
	}
	cl, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cl.Status = status
	if status == ClaimStatusSubmitted && cl.SubmittedAt == nil {
		now := time.Now()
		cl.SubmittedAt = &now
	}
	if err := s.claims.Update(ctx, cl); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("claim_id", cl.ID).Str("status", status).Msg("claim status changed")
	return cl, nil
}
