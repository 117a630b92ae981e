// Package store is the PostgreSQL record store behind every recruiter
// component. It satisfies the small read/write interfaces those packages
// declare and translates pgx.ErrNoRows into apperr.ErrNotFound.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/recruiter-service/internal/apperr"
	"jobmate/recruiter-service/internal/model"
)

// Store wraps a pgx pool.
type Store struct {
	pool *pgxpool.Pool
	ids  *snowflake.Node
}

// New returns a Store. nodeID identifies this process in correction-log ids
// and must be unique per running instance (0–1023).
func New(pool *pgxpool.Pool, nodeID int64) (*Store, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake.NewNode: %w", err)
	}
	return &Store{pool: pool, ids: node}, nil
}

const jobColumns = `
	id::text, title, employer, COALESCE(employer_normalized, ''), COALESCE(source, ''),
	COALESCE(url, ''), COALESCE(description, ''), ai_score, COALESCE(ai_reasons, '{}'),
	human_score, COALESCE(status, ''), created_at, scraped_at, applied_at`

func scanJob(row pgx.Row) (model.JobPosting, error) {
	var j model.JobPosting
	err := row.Scan(
		&j.ID, &j.Title, &j.Employer, &j.EmployerKey, &j.Source,
		&j.URL, &j.Description, &j.AIScore, &j.AIReasons,
		&j.HumanScore, &j.Status, &j.CreatedAt, &j.ScrapedAt, &j.AppliedAt,
	)
	return j, err
}

func (s *Store) queryJobs(ctx context.Context, sql string, args ...any) ([]model.JobPosting, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]model.JobPosting, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// ─── Dashboard reads ─────────────────────────────────────────────────────────

// JobStatuses returns the status of every job posting, "" for NULL.
func (s *Store) JobStatuses(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT COALESCE(status, '') FROM job_postings ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make([]string, 0)
	for rows.Next() {
		var st string
		if err := rows.Scan(&st); err != nil {
			return nil, fmt.Errorf("scan status: %w", err)
		}
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}

// HotJobCandidates returns new jobs whose effective score reaches 8.
func (s *Store) HotJobCandidates(ctx context.Context) ([]model.JobPosting, error) {
	return s.queryJobs(ctx, `
		SELECT`+jobColumns+`
		FROM job_postings
		WHERE status = 'new' AND COALESCE(human_score, ai_score) >= 8
		ORDER BY COALESCE(human_score, ai_score) DESC, scraped_at DESC`)
}

// InFlightJobs returns jobs being actively pursued.
func (s *Store) InFlightJobs(ctx context.Context) ([]model.JobPosting, error) {
	return s.queryJobs(ctx, `
		SELECT`+jobColumns+`
		FROM job_postings
		WHERE status IN ('applied', 'saved', 'new')
		ORDER BY created_at`)
}

// Contacts returns every contact in import order.
func (s *Store) Contacts(ctx context.Context) ([]model.Contact, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT full_name, position, employer, employer_normalized
		FROM contacts
		ORDER BY imported_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]model.Contact, 0)
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.FullName, &c.Position, &c.Employer, &c.EmployerKey); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// ─── Subscriptions ───────────────────────────────────────────────────────────

// ListSubscriptions returns every tracked subscription.
func (s *Store) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT service_name, amount::float8, COALESCE(currency, ''),
		       COALESCE(billing_frequency, ''), COALESCE(status, ''), last_payment_at
		FROM subscriptions
		ORDER BY service_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]model.Subscription, 0)
	for rows.Next() {
		var sub model.Subscription
		if err := rows.Scan(
			&sub.Service, &sub.Amount, &sub.Currency,
			&sub.Frequency, &sub.Status, &sub.LastPaymentAt,
		); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}
	return err
}
