package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/escalation-service/internal/domain"
	"github.com/spec-kit/escalation-service/internal/lifecycle"
)

// maxIDAttempts bounds retries when a generated case id collides.
const maxIDAttempts = 5

// CaseRepository is the case store contract. Create assigns identity and
// enforces the at-most-one-open-case-per-fingerprint invariant atomically;
// UpdateStatus applies lifecycle validation and persists in one step;
// Snapshot returns a consistent copy, never live state.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id string) (*domain.Case, error)
	OpenByFingerprint(ctx context.Context, fingerprint string) (*domain.Case, error)
	UpdateStatus(ctx context.Context, id string, to domain.CaseStatus, actingOwner string) (*domain.Case, error)
	Snapshot(ctx context.Context) ([]domain.Case, error)
}

type caseRepository struct {
	pool *pgxpool.Pool
}

// NewCaseRepository instantiates the postgres-backed store. The schema's
// partial unique index on open fingerprints makes the dedup check and the
// insert a single atomic operation.
func NewCaseRepository(pool *pgxpool.Pool) CaseRepository {
	return &caseRepository{pool: pool}
}

const caseColumns = `id, customer, issue_text, source, sentiment, urgency, criticality,
               trigger_escalation, matched_terms, status, owner, fingerprint,
               reported_at, created_at, last_updated_at, closed_at`

func (r *caseRepository) Create(ctx context.Context, c *domain.Case) error {
	const query = `
        INSERT INTO cases (id, customer, issue_text, source, sentiment, urgency, criticality,
                           trigger_escalation, matched_terms, status, owner, fingerprint, reported_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING created_at, last_updated_at`

	c.Status = lifecycle.InitialStatus()
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		c.ID = domain.NewCaseID()
		err := r.pool.QueryRow(ctx, query,
			c.ID,
			c.Customer,
			c.IssueText,
			c.Source,
			c.Sentiment,
			c.Urgency,
			c.Criticality,
			c.Trigger,
			c.MatchedTerms,
			c.Status,
			c.Owner,
			c.Fingerprint,
			c.ReportedAt,
		).Scan(&c.CreatedAt, &c.LastUpdated)
		if err == nil {
			return nil
		}

		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
			return err
		}
		if pgErr.ConstraintName == "cases_pkey" {
			// id collision, regenerate and retry
			continue
		}
		existing, lookupErr := r.OpenByFingerprint(ctx, c.Fingerprint)
		if lookupErr != nil {
			return lookupErr
		}
		return &domain.DuplicateError{ExistingID: existing.ID, Fingerprint: c.Fingerprint}
	}
	return errors.New("exhausted case id generation attempts")
}

func (r *caseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id=$1`
	return r.fetchSingle(ctx, r.pool, query, id)
}

func (r *caseRepository) OpenByFingerprint(ctx context.Context, fingerprint string) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE fingerprint=$1 AND status <> $2`
	return r.fetchSingle(ctx, r.pool, query, fingerprint, domain.CaseStatusClosed)
}

func (r *caseRepository) UpdateStatus(ctx context.Context, id string, to domain.CaseStatus, actingOwner string) (*domain.Case, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `SELECT ` + caseColumns + ` FROM cases WHERE id=$1 FOR UPDATE`
	c, err := r.fetchSingle(ctx, tx, query, id)
	if err != nil {
		return nil, err
	}

	change, err := lifecycle.Apply(c, to, actingOwner, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	const update = `
        UPDATE cases SET status=$1, owner=$2, closed_at=$3, last_updated_at=NOW()
        WHERE id=$4
        RETURNING last_updated_at`
	if err := tx.QueryRow(ctx, update, change.Status, change.Owner, change.ClosedAt, id).Scan(&c.LastUpdated); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	c.Status = change.Status
	c.Owner = change.Owner
	c.ClosedAt = change.ClosedAt
	return c, nil
}

func (r *caseRepository) Snapshot(ctx context.Context) ([]domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCases(rows)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *caseRepository) fetchSingle(ctx context.Context, q rowQuerier, query string, args ...any) (*domain.Case, error) {
	var c domain.Case
	err := q.QueryRow(ctx, query, args...).Scan(
		&c.ID,
		&c.Customer,
		&c.IssueText,
		&c.Source,
		&c.Sentiment,
		&c.Urgency,
		&c.Criticality,
		&c.Trigger,
		&c.MatchedTerms,
		&c.Status,
		&c.Owner,
		&c.Fingerprint,
		&c.ReportedAt,
		&c.CreatedAt,
		&c.LastUpdated,
		&c.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCaseNotFound
		}
		return nil, err
	}
	return &c, nil
}

func scanCases(rows pgx.Rows) ([]domain.Case, error) {
	var result []domain.Case
	for rows.Next() {
		var c domain.Case
		if err := rows.Scan(
			&c.ID,
			&c.Customer,
			&c.IssueText,
			&c.Source,
			&c.Sentiment,
			&c.Urgency,
			&c.Criticality,
			&c.Trigger,
			&c.MatchedTerms,
			&c.Status,
			&c.Owner,
			&c.Fingerprint,
			&c.ReportedAt,
			&c.CreatedAt,
			&c.LastUpdated,
			&c.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
