package dto

import (
	"time"

	"github.com/spec-kit/escalation-service/internal/domain"
)

// CreateEscalationRequest payload for manual submissions.
type CreateEscalationRequest struct {
	Customer   string     `json:"customer"`
	IssueText  string     `json:"issue_text"`
	Owner      string     `json:"owner,omitempty"`
	ReportedAt *time.Time `json:"reported_at,omitempty"`
}

// BulkEscalationRequest payload for upload batches already mapped to the
// canonical schema.
type BulkEscalationRequest struct {
	Rows []CreateEscalationRequest `json:"rows"`
}

// UpdateStatusRequest payload for lifecycle transitions.
type UpdateStatusRequest struct {
	Status domain.CaseStatus `json:"status"`
	Owner  string            `json:"owner,omitempty"`
}

// SubmitResponse reports what a submission produced.
type SubmitResponse struct {
	Message     string        `json:"message"`
	ID          string        `json:"id,omitempty"`
	DuplicateOf string        `json:"duplicate_of,omitempty"`
	Case        *CaseResponse `json:"case,omitempty"`
}

// CaseResponse is the full case representation.
type CaseResponse struct {
	ID           string             `json:"id"`
	Customer     string             `json:"customer"`
	IssueText    string             `json:"issue_text"`
	Source       domain.Source      `json:"source"`
	Sentiment    domain.Sentiment   `json:"sentiment"`
	Urgency      domain.Urgency     `json:"urgency"`
	Criticality  domain.Criticality `json:"criticality"`
	Trigger      bool               `json:"trigger"`
	MatchedTerms []string           `json:"matched_terms"`
	Status       domain.CaseStatus  `json:"status"`
	Owner        string             `json:"owner,omitempty"`
	ReportedAt   time.Time          `json:"reported_at"`
	CreatedAt    time.Time          `json:"created_at"`
	LastUpdated  time.Time          `json:"last_updated_at"`
	ClosedAt     *time.Time         `json:"closed_at,omitempty"`
}

// ToCaseResponse maps a domain case onto the wire representation.
func ToCaseResponse(c *domain.Case) *CaseResponse {
	if c == nil {
		return nil
	}
	return &CaseResponse{
		ID:           c.ID,
		Customer:     c.Customer,
		IssueText:    c.IssueText,
		Source:       c.Source,
		Sentiment:    c.Sentiment,
		Urgency:      c.Urgency,
		Criticality:  c.Criticality,
		Trigger:      c.Trigger,
		MatchedTerms: c.MatchedTerms,
		Status:       c.Status,
		Owner:        c.Owner,
		ReportedAt:   c.ReportedAt,
		CreatedAt:    c.CreatedAt,
		LastUpdated:  c.LastUpdated,
		ClosedAt:     c.ClosedAt,
	}
}

// ToCaseResponses maps a snapshot of cases.
func ToCaseResponses(cases []domain.Case) []CaseResponse {
	out := make([]CaseResponse, 0, len(cases))
	for i := range cases {
		out = append(out, *ToCaseResponse(&cases[i]))
	}
	return out
}

// MetricsResponse mirrors the aggregator output.
type MetricsResponse struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"by_status"`
	ByUrgency     map[string]int `json:"by_urgency"`
	ByCriticality map[string]int `json:"by_criticality"`
}

// LoginRequest payload for operator login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
