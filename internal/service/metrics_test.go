package service

import (
	"testing"

	"github.com/spec-kit/escalation-service/internal/domain"
)

func TestAggregateCases(t *testing.T) {
	snapshot := []domain.Case{
		{Status: domain.CaseStatusNew, Urgency: domain.UrgencyHigh, Criticality: domain.CriticalityHigh},
		{Status: domain.CaseStatusNew, Urgency: domain.UrgencyHigh, Criticality: domain.CriticalityLow},
		{Status: domain.CaseStatusNew, Urgency: domain.UrgencyHigh, Criticality: domain.CriticalityLow},
		{Status: domain.CaseStatusResolved, Urgency: domain.UrgencyLow, Criticality: domain.CriticalityLow},
		{Status: domain.CaseStatusResolved, Urgency: domain.UrgencyLow, Criticality: domain.CriticalityLow},
	}

	summary := AggregateCases(snapshot)

	if summary.Total != 5 {
		t.Errorf("Total = %d, want 5", summary.Total)
	}
	if got := summary.ByStatus[domain.CaseStatusNew]; got != 3 {
		t.Errorf("ByStatus[NEW] = %d, want 3", got)
	}
	if got := summary.ByStatus[domain.CaseStatusResolved]; got != 2 {
		t.Errorf("ByStatus[RESOLVED] = %d, want 2", got)
	}
	if got := summary.ByUrgency[domain.UrgencyHigh]; got != 3 {
		t.Errorf("ByUrgency[HIGH] = %d, want 3", got)
	}
	if got := summary.ByCriticality[domain.CriticalityHigh]; got != 1 {
		t.Errorf("ByCriticality[HIGH] = %d, want 1", got)
	}

	for name, counts := range map[string]int{
		"status":      sumCounts(summary.ByStatus),
		"urgency":     sumCounts(summary.ByUrgency),
		"criticality": sumCounts(summary.ByCriticality),
	} {
		if counts != summary.Total {
			t.Errorf("%s counts sum to %d, want %d", name, counts, summary.Total)
		}
	}
}

func TestAggregateCasesEmpty(t *testing.T) {
	summary := AggregateCases(nil)
	if summary.Total != 0 {
		t.Errorf("Total = %d, want 0", summary.Total)
	}
	if len(summary.ByStatus) != 0 || len(summary.ByUrgency) != 0 || len(summary.ByCriticality) != 0 {
		t.Error("empty snapshot produced non-empty groupings")
	}
}

func sumCounts[K comparable](counts map[K]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}
