package note

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirena/sirena/internal/platform/autosave"
	"github.com/sirena/sirena/pkg/fielderr"
)

func newTestService(seed []*Note) *Service {
	return NewService(NewRepoMem(seed), nil, zerolog.Nop())
}

func draft() *Note {
	return &Note{
		ClientID: 1, ClientName: "Mia Alvarez",
		ProviderID: 2, ProviderName: "Dana Reyes",
		SessionDate: at("2026-08-24T09:00:00Z"),
	}
}

func filled() Content {
	return Content{
		Objectives:     "Manding targets",
		Interventions:  "DTT trials",
		ClientResponse: "Engaged throughout",
		Progress:       "Mand rate improving",
	}
}

func TestCreateStartsAsDraft(t *testing.T) {
	s := newTestService(nil)
	n, err := s.Create(context.Background(), draft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.Status != StatusDraft {
		t.Errorf("status = %q, want draft", n.Status)
	}
}

func TestCompleteRequiresAllSections(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	n, _ := s.Create(ctx, draft())

	partial := filled()
	partial.Progress = ""
	if _, err := s.UpdateContent(ctx, n.ID, partial); err != nil {
		t.Fatalf("update content: %v", err)
	}

	_, err := s.Complete(ctx, n.ID)
	var fe fielderr.Errors
	if !errors.As(err, &fe) {
		t.Fatalf("expected fielderr.Errors, got %v", err)
	}
	if _, ok := fe["progress"]; !ok {
		t.Error("expected progress error")
	}

	if _, err := s.UpdateContent(ctx, n.ID, filled()); err != nil {
		t.Fatalf("update content: %v", err)
	}
	got, err := s.Complete(ctx, n.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
}

func TestSignedNoteIsImmutable(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	n, _ := s.Create(ctx, draft())
	s.UpdateContent(ctx, n.ID, filled())

	signed, err := s.Sign(ctx, n.ID, "Dana Reyes, BCBA")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if signed.Status != StatusSigned || signed.SignedBy != "Dana Reyes, BCBA" || signed.SignedAt == nil {
		t.Fatalf("signature not recorded: %+v", signed)
	}

	if _, err := s.UpdateContent(ctx, n.ID, Content{Objectives: "changed"}); !errors.Is(err, ErrSigned) {
		t.Errorf("content edit on signed note: got %v, want ErrSigned", err)
	}
	if err := s.Autosave(ctx, n.ID, Content{}); !errors.Is(err, ErrSigned) {
		t.Errorf("autosave on signed note: got %v, want ErrSigned", err)
	}
	if _, err := s.Complete(ctx, n.ID); !errors.Is(err, ErrTransition) {
		t.Errorf("complete on signed note: got %v, want ErrTransition", err)
	}
	if _, err := s.Sign(ctx, n.ID, "Someone Else"); !errors.Is(err, ErrTransition) {
		t.Errorf("re-sign: got %v, want ErrTransition", err)
	}
	if _, err := s.RequestCosign(ctx, n.ID, "anyone", "Sam Whitfield, BCBA-D"); !errors.Is(err, ErrTransition) {
		t.Errorf("cosign request on signed note: got %v, want ErrTransition", err)
	}
	if err := s.Delete(ctx, n.ID); !errors.Is(err, ErrSigned) {
		t.Errorf("delete signed note: got %v, want ErrSigned", err)
	}

	got, _ := s.Get(ctx, n.ID)
	if got.Objectives != filled().Objectives {
		t.Error("signed content changed")
	}
}

func TestSignRequiresSignature(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	n, _ := s.Create(ctx, draft())
	s.UpdateContent(ctx, n.ID, filled())

	_, err := s.Sign(ctx, n.ID, "  ")
	var fe fielderr.Errors
	if !errors.As(err, &fe) {
		t.Fatalf("expected fielderr.Errors, got %v", err)
	}
	if _, ok := fe["signed_by"]; !ok {
		t.Error("expected signed_by error")
	}
}

func TestSignFromDraftRequiresFullBody(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	n, _ := s.Create(ctx, draft())

	if _, err := s.Sign(ctx, n.ID, "Dana Reyes, BCBA"); err == nil {
		t.Fatal("expected sign of empty draft to fail")
	}
}

func TestPendingCosignFreezesLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	n, _ := s.Create(ctx, draft())
	s.UpdateContent(ctx, n.ID, filled())

	pending, err := s.RequestCosign(ctx, n.ID, "Dana Reyes", "Sam Whitfield, BCBA-D")
	if err != nil {
		t.Fatalf("request cosign: %v", err)
	}
	if pending.Status != StatusPendingCosign || pending.CosignRequestedAt == nil {
		t.Fatalf("cosign request not recorded: %+v", pending)
	}
	if pending.Cosigner != "Sam Whitfield, BCBA-D" {
		t.Errorf("cosigner = %q", pending.Cosigner)
	}

	if _, err := s.RequestCosign(ctx, n.ID, "Dana Reyes", "Sam Whitfield, BCBA-D"); !errors.Is(err, ErrTransition) {
		t.Errorf("double cosign request: got %v, want ErrTransition", err)
	}
	if _, err := s.Complete(ctx, n.ID); !errors.Is(err, ErrTransition) {
		t.Errorf("complete while pending cosign: got %v, want ErrTransition", err)
	}
	if _, err := s.Sign(ctx, n.ID, "Dana Reyes, BCBA"); !errors.Is(err, ErrTransition) {
		t.Errorf("sign while pending cosign: got %v, want ErrTransition", err)
	}

	// content edits stay legal while waiting on the cosigner
	edit := filled()
	edit.AdditionalNotes = "added while pending"
	got, err := s.UpdateContent(ctx, n.ID, edit)
	if err != nil {
		t.Fatalf("edit while pending cosign: %v", err)
	}
	if got.Status != StatusPendingCosign {
		t.Errorf("edit moved status to %q", got.Status)
	}
}

func TestRequestCosignRequiresCosigner(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	n, _ := s.Create(ctx, draft())
	s.UpdateContent(ctx, n.ID, filled())

	_, err := s.RequestCosign(ctx, n.ID, "Dana Reyes", "")
	var fe fielderr.Errors
	if !errors.As(err, &fe) {
		t.Fatalf("expected fielderr.Errors, got %v", err)
	}
	if _, ok := fe["cosigner"]; !ok {
		t.Error("expected cosigner error")
	}

	if _, err := s.RequestCosign(ctx, n.ID, "  ", "Sam Whitfield, BCBA-D"); !errors.As(err, &fe) {
		t.Fatalf("expected fielderr.Errors for blank requester, got %v", err)
	} else if _, ok := fe["requested_by"]; !ok {
		t.Error("expected requested_by error")
	}

	got, _ := s.Get(ctx, n.ID)
	if got.Status != StatusDraft {
		t.Errorf("rejected request moved status to %q", got.Status)
	}
}

func TestAutosaveDebounces(t *testing.T) {
	ctx := context.Background()
	deb := autosave.NewDebouncer(20 * time.Millisecond)
	defer deb.Stop()
	s := NewService(NewRepoMem(nil), deb, zerolog.Nop())
	n, _ := s.Create(ctx, draft())

	first := filled()
	first.Objectives = "first burst"
	if err := s.Autosave(ctx, n.ID, first); err != nil {
		t.Fatalf("autosave: %v", err)
	}
	second := filled()
	second.Objectives = "second burst"
	if err := s.Autosave(ctx, n.ID, second); err != nil {
		t.Fatalf("autosave: %v", err)
	}

	time.Sleep(60 * time.Millisecond)
	got, _ := s.Get(ctx, n.ID)
	if got.Objectives != "second burst" {
		t.Errorf("objectives = %q, want the superseding burst", got.Objectives)
	}
}

func TestSignCancelsPendingAutosave(t *testing.T) {
	ctx := context.Background()
	deb := autosave.NewDebouncer(40 * time.Millisecond)
	defer deb.Stop()
	s := NewService(NewRepoMem(nil), deb, zerolog.Nop())
	n, _ := s.Create(ctx, draft())
	s.UpdateContent(ctx, n.ID, filled())

	stale := filled()
	stale.Objectives = "stale autosave"
	if err := s.Autosave(ctx, n.ID, stale); err != nil {
		t.Fatalf("autosave: %v", err)
	}
	if _, err := s.Sign(ctx, n.ID, "Dana Reyes, BCBA"); err != nil {
		t.Fatalf("sign: %v", err)
	}

	time.Sleep(80 * time.Millisecond)
	got, _ := s.Get(ctx, n.ID)
	if got.Objectives == "stale autosave" {
		t.Error("autosave fired after signing")
	}
}

func TestDocumentRendersSignature(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	n, _ := s.Create(ctx, draft())
	s.UpdateContent(ctx, n.ID, filled())
	signed, err := s.Sign(ctx, n.ID, "Dana Reyes, BCBA")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	doc := signed.Document()
	for _, want := range []string{"SESSION NOTE", "Mia Alvarez", "OBJECTIVES", "Electronically signed by Dana Reyes, BCBA"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}
