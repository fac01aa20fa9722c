package service

import (
	"context"
	"fmt"

	"github.com/spec-kit/escalation-service/internal/domain"
)

// RowError records why one bulk row was skipped.
type RowError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// BulkResult summarizes a bulk ingestion run.
type BulkResult struct {
	Created    int        `json:"created"`
	Duplicates int        `json:"duplicates"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	CaseIDs    []string   `json:"case_ids"`
	Errors     []RowError `json:"errors"`
}

// BulkSubmit feeds a batch of canonical rows through the create path. Rows
// arrive already mapped to the canonical schema by the upload collaborator.
// A malformed row is collected as a per-row error and never aborts the rest
// of the batch.
func (s *EscalationService) BulkSubmit(ctx context.Context, records []domain.CanonicalInputRecord) BulkResult {
	result := BulkResult{CaseIDs: []string{}, Errors: []RowError{}}

	for i, record := range records {
		if record.Source == "" {
			record.Source = domain.SourceUpload
		}

		outcome, err := s.Submit(ctx, record)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Index: i, Message: err.Error()})
			continue
		}

		switch {
		case outcome.Created:
			result.Created++
			result.CaseIDs = append(result.CaseIDs, outcome.Case.ID)
		case outcome.DuplicateOf != "":
			result.Duplicates++
			result.Errors = append(result.Errors, RowError{
				Index:   i,
				Message: fmt.Sprintf("duplicate of open case %s", outcome.DuplicateOf),
			})
		default:
			result.Skipped++
		}
	}

	return result
}
