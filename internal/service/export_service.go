package service

import (
	"context"
	"encoding/csv"
	"io"
	"time"
)

// exportColumns is the fixed tabular layout; consumers depend on the order.
var exportColumns = []string{
	"Escalation ID",
	"Customer",
	"Issue",
	"Sentiment",
	"Urgency",
	"Criticality",
	"Status",
	"Owner",
	"Reported At",
	"Created At",
	"Last Updated At",
	"Closed At",
}

// ExportCSV writes the full case snapshot as CSV in the fixed column order.
func (s *EscalationService) ExportCSV(ctx context.Context, w io.Writer) error {
	snapshot, err := s.cases.Snapshot(ctx)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportColumns); err != nil {
		return err
	}

	for i := range snapshot {
		c := &snapshot[i]
		closedAt := ""
		if c.ClosedAt != nil {
			closedAt = c.ClosedAt.UTC().Format(time.RFC3339)
		}
		row := []string{
			c.ID,
			c.Customer,
			c.IssueText,
			string(c.Sentiment),
			string(c.Urgency),
			string(c.Criticality),
			string(c.Status),
			c.Owner,
			c.ReportedAt.UTC().Format(time.RFC3339),
			c.CreatedAt.UTC().Format(time.RFC3339),
			c.LastUpdated.UTC().Format(time.RFC3339),
			closedAt,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
