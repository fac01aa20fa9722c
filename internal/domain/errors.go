package domain

import (
	"errors"
	"fmt"
)

// ErrCaseNotFound is returned when no case exists for the requested id.
var ErrCaseNotFound = errors.New("case not found")

// DuplicateError reports that an open case already exists for a fingerprint.
// It is an expected outcome of the create path, not an exceptional one;
// callers surface the existing case id.
type DuplicateError struct {
	ExistingID  string
	Fingerprint string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("open case %s already exists for fingerprint", e.ExistingID)
}

// TransitionError reports a rejected lifecycle transition. The case is left
// unmodified whenever one is returned.
type TransitionError struct {
	From         CaseStatus
	To           CaseStatus
	MissingOwner bool
}

func (e *TransitionError) Error() string {
	if e.MissingOwner {
		return fmt.Sprintf("transition %s -> %s requires an owner", e.From, e.To)
	}
	return fmt.Sprintf("transition %s -> %s is not permitted", e.From, e.To)
}
