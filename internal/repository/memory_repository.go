package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/escalation-service/internal/domain"
	"github.com/spec-kit/escalation-service/internal/lifecycle"
)

// memoryCaseRepository keeps the full case set in memory behind a single
// mutex, which gives the same single-writer discipline the postgres store
// gets from its transactions. Used when no DSN is configured, and in tests.
type memoryCaseRepository struct {
	mu               sync.Mutex
	cases            map[string]*domain.Case
	openFingerprints map[string]string
	now              func() time.Time
}

// NewMemoryCaseRepository instantiates the in-memory store.
func NewMemoryCaseRepository() CaseRepository {
	return &memoryCaseRepository{
		cases:            make(map[string]*domain.Case),
		openFingerprints: make(map[string]string),
		now:              time.Now,
	}
}

func (r *memoryCaseRepository) Create(ctx context.Context, c *domain.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existingID, ok := r.openFingerprints[c.Fingerprint]; ok {
		return &domain.DuplicateError{ExistingID: existingID, Fingerprint: c.Fingerprint}
	}

	id := ""
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		candidate := domain.NewCaseID()
		if _, taken := r.cases[candidate]; !taken {
			id = candidate
			break
		}
	}
	if id == "" {
		return errors.New("exhausted case id generation attempts")
	}

	now := r.now().UTC()
	c.ID = id
	c.Status = lifecycle.InitialStatus()
	c.CreatedAt = now
	c.LastUpdated = now
	c.ClosedAt = nil

	stored := cloneCase(c)
	r.cases[id] = stored
	r.openFingerprints[c.Fingerprint] = id
	return nil
}

func (r *memoryCaseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cases[id]
	if !ok {
		return nil, domain.ErrCaseNotFound
	}
	return cloneCase(c), nil
}

func (r *memoryCaseRepository) OpenByFingerprint(ctx context.Context, fingerprint string) (*domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.openFingerprints[fingerprint]
	if !ok {
		return nil, domain.ErrCaseNotFound
	}
	return cloneCase(r.cases[id]), nil
}

func (r *memoryCaseRepository) UpdateStatus(ctx context.Context, id string, to domain.CaseStatus, actingOwner string) (*domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cases[id]
	if !ok {
		return nil, domain.ErrCaseNotFound
	}

	change, err := lifecycle.Apply(c, to, actingOwner, r.now().UTC())
	if err != nil {
		return nil, err
	}

	c.Status = change.Status
	c.Owner = change.Owner
	c.ClosedAt = change.ClosedAt
	c.LastUpdated = r.now().UTC()

	if c.Status == domain.CaseStatusClosed {
		delete(r.openFingerprints, c.Fingerprint)
	}
	return cloneCase(c), nil
}

func (r *memoryCaseRepository) Snapshot(ctx context.Context) ([]domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make([]domain.Case, 0, len(r.cases))
	for _, c := range r.cases {
		snapshot = append(snapshot, *cloneCase(c))
	}
	sort.Slice(snapshot, func(i, j int) bool {
		if snapshot[i].CreatedAt.Equal(snapshot[j].CreatedAt) {
			return snapshot[i].ID < snapshot[j].ID
		}
		return snapshot[i].CreatedAt.Before(snapshot[j].CreatedAt)
	})
	return snapshot, nil
}

func cloneCase(c *domain.Case) *domain.Case {
	clone := *c
	clone.MatchedTerms = append([]string(nil), c.MatchedTerms...)
	if c.ClosedAt != nil {
		closedAt := *c.ClosedAt
		clone.ClosedAt = &closedAt
	}
	return &clone
}
