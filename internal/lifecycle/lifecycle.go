// Package lifecycle validates and applies case status transitions. It holds
// no state of its own; the case store applies the changes it produces.
package lifecycle

import (
	"time"

	"github.com/spec-kit/escalation-service/internal/domain"
)

var allowedTransitions = map[domain.CaseStatus][]domain.CaseStatus{
	domain.CaseStatusNew:        {domain.CaseStatusInProgress, domain.CaseStatusEscalated, domain.CaseStatusClosed},
	domain.CaseStatusInProgress: {domain.CaseStatusResolved, domain.CaseStatusEscalated, domain.CaseStatusClosed},
	domain.CaseStatusEscalated:  {domain.CaseStatusInProgress, domain.CaseStatusResolved, domain.CaseStatusClosed},
	domain.CaseStatusResolved:   {domain.CaseStatusClosed},
	domain.CaseStatusClosed:     {},
}

// CanTransition reports whether the edge from -> to exists in the graph.
func CanTransition(from, to domain.CaseStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// InitialStatus is the status every case starts in.
func InitialStatus() domain.CaseStatus {
	return domain.CaseStatusNew
}

// Change is the validated mutation a transition produces.
type Change struct {
	Status   domain.CaseStatus
	Owner    string
	ClosedAt *time.Time
}

// Apply validates moving the case to the given status at the given time.
// Entering InProgress, Escalated or Resolved requires an owner: the acting
// owner is assigned when supplied, otherwise the case's existing owner must
// already be set. Entering Closed stamps ClosedAt; every other target leaves
// it nil.
func Apply(c *domain.Case, to domain.CaseStatus, actingOwner string, at time.Time) (Change, error) {
	if !CanTransition(c.Status, to) {
		return Change{}, &domain.TransitionError{From: c.Status, To: to}
	}

	owner := c.Owner
	if actingOwner != "" {
		owner = actingOwner
	}

	switch to {
	case domain.CaseStatusInProgress, domain.CaseStatusEscalated, domain.CaseStatusResolved:
		if owner == "" {
			return Change{}, &domain.TransitionError{From: c.Status, To: to, MissingOwner: true}
		}
	}

	change := Change{Status: to, Owner: owner}
	if to == domain.CaseStatusClosed {
		closedAt := at
		change.ClosedAt = &closedAt
	}
	return change, nil
}
