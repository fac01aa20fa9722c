package service

import "github.com/spec-kit/escalation-service/internal/domain"

// MetricsSummary is the point-in-time view over a store snapshot. Each
// grouping partitions the snapshot, so its counts always sum to Total.
type MetricsSummary struct {
	Total         int                        `json:"total"`
	ByStatus      map[domain.CaseStatus]int  `json:"by_status"`
	ByUrgency     map[domain.Urgency]int     `json:"by_urgency"`
	ByCriticality map[domain.Criticality]int `json:"by_criticality"`
}

// AggregateCases computes the summary in one pass over the snapshot. Pure;
// the snapshot is never modified.
func AggregateCases(snapshot []domain.Case) MetricsSummary {
	summary := MetricsSummary{
		Total:         len(snapshot),
		ByStatus:      make(map[domain.CaseStatus]int),
		ByUrgency:     make(map[domain.Urgency]int),
		ByCriticality: make(map[domain.Criticality]int),
	}

	for i := range snapshot {
		summary.ByStatus[snapshot[i].Status]++
		summary.ByUrgency[snapshot[i].Urgency]++
		summary.ByCriticality[snapshot[i].Criticality]++
	}

	return summary
}
