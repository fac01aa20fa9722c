package events

import (
	"time"

	"github.com/spec-kit/escalation-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCaseCreated       EventType = "case_created"
	EventCaseStatusChanged EventType = "case_status_changed"
	EventCaseClosed        EventType = "case_closed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	CaseID    string      `json:"case_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CaseCreatedPayload payload.
type CaseCreatedPayload struct {
	Customer     string             `json:"customer"`
	Source       domain.Source      `json:"source"`
	Sentiment    domain.Sentiment   `json:"sentiment"`
	Urgency      domain.Urgency     `json:"urgency"`
	Criticality  domain.Criticality `json:"criticality"`
	MatchedTerms []string           `json:"matched_terms"`
}

// CaseStatusChangedPayload payload.
type CaseStatusChangedPayload struct {
	OldStatus domain.CaseStatus `json:"old_status"`
	NewStatus domain.CaseStatus `json:"new_status"`
	Owner     string            `json:"owner,omitempty"`
}

// CaseClosedPayload payload.
type CaseClosedPayload struct {
	ClosedAt time.Time `json:"closed_at"`
}
