package note

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirena/sirena/internal/platform/autosave"
	"github.com/sirena/sirena/pkg/fielderr"
)

// ErrSigned is returned by every operation that would change a signed note.
var ErrSigned = errors.New("note is signed and immutable")

// ErrTransition is wrapped by lifecycle moves the state machine forbids.
var ErrTransition = errors.New("invalid note transition")

type Service struct {
	repo      Repository
	debouncer *autosave.Debouncer
	logger    zerolog.Logger
}

// NewService builds the note service. debouncer may be nil; autosaves then
// persist immediately.
func NewService(repo Repository, debouncer *autosave.Debouncer, logger zerolog.Logger) *Service {
	return &Service{repo: repo, debouncer: debouncer, logger: logger.With().Str("domain", "note").Logger()}
}

func (s *Service) Create(ctx context.Context, n *Note) (*Note, error) {
	errs := fielderr.Errors{}
	if n.ClientID == 0 {
		errs["client_id"] = "client is required"
	}
	if n.ProviderID == 0 {
		errs["provider_id"] = "provider is required"
	}
	if n.SessionDate.IsZero() {
		errs["session_date"] = "session date is required"
	}
	if errs.Any() {
		return nil, errs
	}
	n.Status = StatusDraft
	n.SignedBy = ""
	n.SignedAt = nil
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("note_id", n.ID).Msg("note created")
	return n, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Note, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, q Query, limit, offset int) ([]*Note, int, int, error) {
	return s.repo.Search(ctx, q, limit, offset)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.Signed() {
		return ErrSigned
	}
	if s.debouncer != nil {
		s.debouncer.Cancel(id)
	}
	return s.repo.Delete(ctx, id)
}

// UpdateContent replaces the editable body of the note. Content edits are
// legal in every state short of signed and never move the lifecycle.
func (s *Service) UpdateContent(ctx context.Context, id int64, content Content) (*Note, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Signed() {
		return nil, ErrSigned
	}
	content.Apply(n)
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Autosave schedules a deferred save of the note body. Rapid keystrokes keep
// superseding the pending save; only the last burst is written.
func (s *Service) Autosave(ctx context.Context, id int64, content Content) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.Signed() {
		return ErrSigned
	}
	if s.debouncer == nil {
		_, err := s.UpdateContent(ctx, id, content)
		return err
	}
	s.debouncer.Arm(id, func() {
		if _, err := s.UpdateContent(context.Background(), id, content); err != nil {
			s.logger.Warn().Err(err).Int64("note_id", id).Msg("autosave failed")
		}
	})
	return nil
}

// FlushAutosave persists any pending autosave for the note immediately.
func (s *Service) FlushAutosave(id int64) bool {
	if s.debouncer == nil {
		return false
	}
	return s.debouncer.Flush(id)
}

func completionErrors(n *Note) fielderr.Errors {
	errs := fielderr.Errors{}
	if strings.TrimSpace(n.Objectives) == "" {
		errs["objectives"] = "objectives are required to complete a note"
	}
	if strings.TrimSpace(n.Interventions) == "" {
		errs["interventions"] = "interventions are required to complete a note"
	}
	if strings.TrimSpace(n.ClientResponse) == "" {
		errs["client_response"] = "client response is required to complete a note"
	}
	if strings.TrimSpace(n.Progress) == "" {
		errs["progress"] = "progress is required to complete a note"
	}
	return errs
}

// Complete moves a draft note to completed once every clinical section is
// filled in.
func (s *Service) Complete(ctx context.Context, id int64) (*Note, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Status != StatusDraft {
		return nil, fmt.Errorf("%w: complete from %s", ErrTransition, n.Status)
	}
	if errs := completionErrors(n); errs.Any() {
		return nil, errs
	}
	n.Status = StatusCompleted
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("note_id", n.ID).Msg("note completed")
	return n, nil
}

// Sign locks the note. Allowed from draft and completed; the draft path still
// requires the full clinical body so nothing half-written gets locked in.
func (s *Service) Sign(ctx context.Context, id int64, signer string) (*Note, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch n.Status {
	case StatusDraft, StatusCompleted:
	default:
		return nil, fmt.Errorf("%w: sign from %s", ErrTransition, n.Status)
	}
	if strings.TrimSpace(signer) == "" {
		return nil, fielderr.Errors{"signed_by": "signature is required"}
	}
	if errs := completionErrors(n); errs.Any() {
		return nil, errs
	}
	if s.debouncer != nil {
		s.debouncer.Cancel(id)
	}
	now := time.Now()
	n.Status = StatusSigned
	n.SignedBy = signer
	n.SignedAt = &now
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("note_id", n.ID).Str("signed_by", signer).Msg("note signed")
	return n, nil
}

// RequestCosign flags the note for review by the selected co-signer. A note
// already waiting on a cosigner cannot be flagged twice, and the request is
// rejected until a co-signer is actually chosen.
func (s *Service) RequestCosign(ctx context.Context, id int64, requester, cosigner string) (*Note, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch n.Status {
	case StatusDraft, StatusCompleted:
	case StatusPendingCosign:
		return nil, fmt.Errorf("%w: cosign already requested", ErrTransition)
	default:
		return nil, fmt.Errorf("%w: request cosign from %s", ErrTransition, n.Status)
	}
	errs := fielderr.Errors{}
	if strings.TrimSpace(requester) == "" {
		errs["requested_by"] = "requester identity is required"
	}
	if strings.TrimSpace(cosigner) == "" {
		errs["cosigner"] = "a co-signer must be selected"
	}
	if errs.Any() {
		return nil, errs
	}
	now := time.Now()
	n.Status = StatusPendingCosign
	n.CosignRequestedBy = requester
	n.CosignRequestedAt = &now
	n.Cosigner = cosigner
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("note_id", n.ID).Str("requested_by", requester).Str("cosigner", cosigner).Msg("cosign requested")
	return n, nil
}
