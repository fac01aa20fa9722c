package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CaseStatus enumerates lifecycle states for escalation cases.
type CaseStatus string

const (
	CaseStatusNew        CaseStatus = "NEW"
	CaseStatusInProgress CaseStatus = "IN_PROGRESS"
	CaseStatusEscalated  CaseStatus = "ESCALATED"
	CaseStatusResolved   CaseStatus = "RESOLVED"
	CaseStatusClosed     CaseStatus = "CLOSED"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s CaseStatus) Valid() bool {
	switch s {
	case CaseStatusNew, CaseStatusInProgress, CaseStatusEscalated, CaseStatusResolved, CaseStatusClosed:
		return true
	}
	return false
}

// Sentiment is the classifier's two-valued sentiment verdict.
type Sentiment string

const (
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
)

// Urgency enumerates the classifier's urgency verdict.
type Urgency string

const (
	UrgencyHigh Urgency = "HIGH"
	UrgencyLow  Urgency = "LOW"
)

// Criticality enumerates the classifier's criticality verdict.
type Criticality string

const (
	CriticalityHigh Criticality = "HIGH"
	CriticalityLow  Criticality = "LOW"
)

// Case is the persisted escalation aggregate. Classification fields are
// immutable after creation; only Status, Owner and the timestamps move.
type Case struct {
	ID           string
	Customer     string
	IssueText    string
	Source       Source
	Sentiment    Sentiment
	Urgency      Urgency
	Criticality  Criticality
	Trigger      bool
	MatchedTerms []string
	Status       CaseStatus
	Owner        string
	Fingerprint  string
	ReportedAt   time.Time
	CreatedAt    time.Time
	LastUpdated  time.Time
	ClosedAt     *time.Time
}

// Open reports whether the case still blocks duplicate submissions.
func (c *Case) Open() bool {
	return c.Status != CaseStatusClosed
}

const caseIDPrefix = "ESC-"

// NewCaseID generates a candidate case identifier: the ESC- prefix followed
// by eight uppercase alphanumeric characters. Callers must retry on the
// unlikely event of a collision with an existing id.
func NewCaseID() string {
	return caseIDPrefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
