package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/escalation-service/internal/classifier"
	"github.com/spec-kit/escalation-service/internal/dedup"
	"github.com/spec-kit/escalation-service/internal/domain"
	"github.com/spec-kit/escalation-service/internal/events"
	"github.com/spec-kit/escalation-service/internal/observability"
	"github.com/spec-kit/escalation-service/internal/persistence"
	"github.com/spec-kit/escalation-service/internal/repository"
	apperrors "github.com/spec-kit/escalation-service/pkg/util/errorutil"
)

// EscalationService funnels every producer (manual, upload, mail) through
// the same classify -> fingerprint -> create path and drives case lifecycle
// updates through the store.
type EscalationService struct {
	cases      repository.CaseRepository
	classifier *classifier.Classifier
	cache      *persistence.FingerprintCache
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// EscalationDependencies bundles collaborators for the service.
type EscalationDependencies struct {
	CaseRepo   repository.CaseRepository
	Classifier *classifier.Classifier
	Cache      *persistence.FingerprintCache
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewEscalationService constructs the service.
func NewEscalationService(deps EscalationDependencies) *EscalationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EscalationService{
		cases:      deps.CaseRepo,
		classifier: deps.Classifier,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// SubmitOutcome describes what one canonical input record produced.
type SubmitOutcome struct {
	Case           *domain.Case
	Classification classifier.Result
	Created        bool
	DuplicateOf    string
}

// Submit classifies one canonical record and, when it triggers, creates a
// case unless an open duplicate exists. Non-triggering records are
// acknowledged without creating anything; duplicates surface the existing id.
func (s *EscalationService) Submit(ctx context.Context, record domain.CanonicalInputRecord) (*SubmitOutcome, error) {
	customer := strings.TrimSpace(record.Customer)
	if customer == "" {
		return nil, apperrors.NewValidationError("customer is required", nil)
	}

	source := record.Source
	if source == "" {
		source = domain.SourceManual
	}
	if !source.Valid() {
		return nil, apperrors.NewValidationError("unknown source tag", map[string]any{"source": string(record.Source)})
	}

	reportedAt := record.ReportedAt
	if reportedAt.IsZero() {
		reportedAt = time.Now().UTC()
	}

	result := s.classifier.Classify(record.IssueText)
	outcome := &SubmitOutcome{Classification: result}

	if !result.Trigger {
		s.metrics.RecordIngest(string(source), "skipped")
		return outcome, nil
	}

	fingerprint := dedup.Fingerprint(customer, record.IssueText)
	if s.cache.Contains(ctx, fingerprint) {
		existing, err := s.cases.OpenByFingerprint(ctx, fingerprint)
		if err == nil {
			s.metrics.RecordIngest(string(source), "duplicate")
			outcome.DuplicateOf = existing.ID
			return outcome, nil
		}
		if !errors.Is(err, domain.ErrCaseNotFound) {
			return nil, err
		}
		// stale cache entry, the store decides
	}

	c := &domain.Case{
		Customer:     customer,
		IssueText:    record.IssueText,
		Source:       source,
		Sentiment:    result.Sentiment,
		Urgency:      result.Urgency,
		Criticality:  result.Criticality,
		Trigger:      result.Trigger,
		MatchedTerms: result.MatchedTerms,
		Owner:        strings.TrimSpace(record.Owner),
		Fingerprint:  fingerprint,
		ReportedAt:   reportedAt,
	}

	if err := s.cases.Create(ctx, c); err != nil {
		var dupErr *domain.DuplicateError
		if errors.As(err, &dupErr) {
			s.metrics.RecordIngest(string(source), "duplicate")
			outcome.DuplicateOf = dupErr.ExistingID
			return outcome, nil
		}
		s.metrics.RecordIngest(string(source), "failed")
		return nil, err
	}

	s.cache.Add(ctx, fingerprint)
	s.metrics.RecordIngest(string(source), "created")
	s.logger.Info("case created",
		zap.String("case_id", c.ID),
		zap.String("customer", c.Customer),
		zap.String("source", string(c.Source)),
		zap.String("urgency", string(c.Urgency)))

	s.publishEvent(ctx, events.Event{
		Type:   events.EventCaseCreated,
		CaseID: c.ID,
		Payload: events.CaseCreatedPayload{
			Customer:     c.Customer,
			Source:       c.Source,
			Sentiment:    c.Sentiment,
			Urgency:      c.Urgency,
			Criticality:  c.Criticality,
			MatchedTerms: c.MatchedTerms,
		},
	})

	outcome.Case = c
	outcome.Created = true
	return outcome, nil
}

// Get returns one case by id.
func (s *EscalationService) Get(ctx context.Context, id string) (*domain.Case, error) {
	return s.cases.GetByID(ctx, id)
}

// Snapshot returns a consistent point-in-time copy of the store.
func (s *EscalationService) Snapshot(ctx context.Context) ([]domain.Case, error) {
	return s.cases.Snapshot(ctx)
}

// UpdateStatus moves a case through the lifecycle. Validation and
// persistence happen atomically inside the store; rejected transitions leave
// the case untouched.
func (s *EscalationService) UpdateStatus(ctx context.Context, id string, to domain.CaseStatus, actingOwner string) (*domain.Case, error) {
	if !to.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(to)})
	}

	before, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.cases.UpdateStatus(ctx, id, to, strings.TrimSpace(actingOwner))
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventCaseStatusChanged,
		CaseID: updated.ID,
		Payload: events.CaseStatusChangedPayload{
			OldStatus: before.Status,
			NewStatus: updated.Status,
			Owner:     updated.Owner,
		},
	})

	if updated.Status == domain.CaseStatusClosed {
		s.cache.Remove(ctx, updated.Fingerprint)
		if updated.ClosedAt != nil {
			s.publishEvent(ctx, events.Event{
				Type:    events.EventCaseClosed,
				CaseID:  updated.ID,
				Payload: events.CaseClosedPayload{ClosedAt: *updated.ClosedAt},
			})
		}
	}

	return updated, nil
}

// Metrics aggregates a fresh snapshot.
func (s *EscalationService) Metrics(ctx context.Context) (MetricsSummary, error) {
	snapshot, err := s.cases.Snapshot(ctx)
	if err != nil {
		return MetricsSummary{}, err
	}
	return AggregateCases(snapshot), nil
}

func (s *EscalationService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
