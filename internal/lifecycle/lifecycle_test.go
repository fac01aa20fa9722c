package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/escalation-service/internal/domain"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from domain.CaseStatus
		to   domain.CaseStatus
		want bool
	}{
		{domain.CaseStatusNew, domain.CaseStatusInProgress, true},
		{domain.CaseStatusNew, domain.CaseStatusEscalated, true},
		{domain.CaseStatusNew, domain.CaseStatusClosed, true},
		{domain.CaseStatusNew, domain.CaseStatusResolved, false},
		{domain.CaseStatusInProgress, domain.CaseStatusResolved, true},
		{domain.CaseStatusInProgress, domain.CaseStatusEscalated, true},
		{domain.CaseStatusInProgress, domain.CaseStatusClosed, true},
		{domain.CaseStatusInProgress, domain.CaseStatusNew, false},
		{domain.CaseStatusEscalated, domain.CaseStatusInProgress, true},
		{domain.CaseStatusEscalated, domain.CaseStatusResolved, true},
		{domain.CaseStatusEscalated, domain.CaseStatusClosed, true},
		{domain.CaseStatusEscalated, domain.CaseStatusNew, false},
		{domain.CaseStatusResolved, domain.CaseStatusClosed, true},
		{domain.CaseStatusResolved, domain.CaseStatusInProgress, false},
		{domain.CaseStatusClosed, domain.CaseStatusNew, false},
		{domain.CaseStatusClosed, domain.CaseStatusInProgress, false},
		{domain.CaseStatusClosed, domain.CaseStatusEscalated, false},
		{domain.CaseStatusClosed, domain.CaseStatusResolved, false},
		{domain.CaseStatusClosed, domain.CaseStatusClosed, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestApplySetsClosedAt(t *testing.T) {
	fixedTime := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	c := &domain.Case{Status: domain.CaseStatusNew}

	change, err := Apply(c, domain.CaseStatusClosed, "", fixedTime)
	if err != nil {
		t.Fatalf("Apply(New -> Closed) error = %v", err)
	}
	if change.Status != domain.CaseStatusClosed {
		t.Errorf("Status = %q, want %q", change.Status, domain.CaseStatusClosed)
	}
	if change.ClosedAt == nil {
		t.Fatal("ClosedAt = nil, want transition time")
	}
	if !change.ClosedAt.Equal(fixedTime) {
		t.Errorf("ClosedAt = %v, want %v", change.ClosedAt, fixedTime)
	}
}

func TestApplyLeavesClosedAtNilForOpenStates(t *testing.T) {
	c := &domain.Case{Status: domain.CaseStatusNew, Owner: "rivera"}

	change, err := Apply(c, domain.CaseStatusInProgress, "", time.Now())
	if err != nil {
		t.Fatalf("Apply(New -> InProgress) error = %v", err)
	}
	if change.ClosedAt != nil {
		t.Errorf("ClosedAt = %v, want nil", change.ClosedAt)
	}
}

func TestApplyOwnerRequirement(t *testing.T) {
	tests := []struct {
		name        string
		from        domain.CaseStatus
		to          domain.CaseStatus
		caseOwner   string
		actingOwner string
		wantOwner   string
		wantMissing bool
	}{
		{
			name:        "in progress without any owner rejected",
			from:        domain.CaseStatusNew,
			to:          domain.CaseStatusInProgress,
			wantMissing: true,
		},
		{
			name:        "acting owner assigned on entry",
			from:        domain.CaseStatusNew,
			to:          domain.CaseStatusEscalated,
			actingOwner: "rivera",
			wantOwner:   "rivera",
		},
		{
			name:      "existing owner satisfies requirement",
			from:      domain.CaseStatusEscalated,
			to:        domain.CaseStatusResolved,
			caseOwner: "rivera",
			wantOwner: "rivera",
		},
		{
			name:        "acting owner replaces existing",
			from:        domain.CaseStatusInProgress,
			to:          domain.CaseStatusResolved,
			caseOwner:   "rivera",
			actingOwner: "chen",
			wantOwner:   "chen",
		},
		{
			name:      "close never requires an owner",
			from:      domain.CaseStatusNew,
			to:        domain.CaseStatusClosed,
			wantOwner: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &domain.Case{Status: tt.from, Owner: tt.caseOwner}
			change, err := Apply(c, tt.to, tt.actingOwner, time.Now())

			if tt.wantMissing {
				var transitionErr *domain.TransitionError
				if !errors.As(err, &transitionErr) {
					t.Fatalf("Apply error = %v, want TransitionError", err)
				}
				if !transitionErr.MissingOwner {
					t.Errorf("MissingOwner = false, want true")
				}
				return
			}

			if err != nil {
				t.Fatalf("Apply error = %v", err)
			}
			if change.Owner != tt.wantOwner {
				t.Errorf("Owner = %q, want %q", change.Owner, tt.wantOwner)
			}
		})
	}
}

func TestApplyRejectsUnknownEdge(t *testing.T) {
	c := &domain.Case{Status: domain.CaseStatusClosed}

	_, err := Apply(c, domain.CaseStatusNew, "rivera", time.Now())
	var transitionErr *domain.TransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("Apply error = %v, want TransitionError", err)
	}
	if transitionErr.From != domain.CaseStatusClosed || transitionErr.To != domain.CaseStatusNew {
		t.Errorf("TransitionError = %s -> %s, want CLOSED -> NEW", transitionErr.From, transitionErr.To)
	}
	if transitionErr.MissingOwner {
		t.Errorf("MissingOwner = true for illegal edge, want false")
	}
}

func TestInitialStatus(t *testing.T) {
	if got := InitialStatus(); got != domain.CaseStatusNew {
		t.Errorf("InitialStatus() = %q, want %q", got, domain.CaseStatusNew)
	}
}
