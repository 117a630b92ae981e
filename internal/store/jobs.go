package store

import (
	"context"
	"fmt"

	"jobmate/recruiter-service/internal/apperr"
	"jobmate/recruiter-service/internal/kanban"
	"jobmate/recruiter-service/internal/model"
)

// GetJob returns a single job posting by id.
func (s *Store) GetJob(ctx context.Context, id string) (*model.JobPosting, error) {
	j, err := scanJob(s.pool.QueryRow(ctx, `SELECT`+jobColumns+` FROM job_postings WHERE id::text = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &j, nil
}

// updateStatusSQL stamps applied_at whenever a job enters applied from some
// other status, so a job re-applied after a restore gets a fresh timestamp.
// Writing applied over applied keeps the original stamp.
const updateStatusSQL = `
		UPDATE job_postings
		SET applied_at = CASE
		        WHEN $1 = 'applied' AND status IS DISTINCT FROM 'applied' THEN NOW()
		        ELSE applied_at
		    END,
		    status     = $1,
		    updated_at = NOW()
		WHERE id::text = $2`

// UpdateJobStatus writes status. Entering applied stamps applied_at.
func (s *Store) UpdateJobStatus(ctx context.Context, id string, status kanban.Status) error {
	tag, err := s.pool.Exec(ctx, updateStatusSQL, string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListRecentJobs returns up to limit jobs, most recently scraped first.
func (s *Store) ListRecentJobs(ctx context.Context, limit int) ([]model.RecruiterJob, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, title, employer, COALESCE(description, ''), COALESCE(ai_reasons, '{}'),
		       ai_score, human_score, COALESCE(status, ''), COALESCE(source, ''), COALESCE(url, ''),
		       scraped_at, created_at
		FROM job_postings
		ORDER BY scraped_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]model.RecruiterJob, 0)
	for rows.Next() {
		var j model.RecruiterJob
		if err := rows.Scan(
			&j.ID, &j.Title, &j.Employer, &j.Description, &j.AIReasons,
			&j.AIScore, &j.HumanScore, &j.Status, &j.Source, &j.URL,
			&j.ScrapedAt, &j.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan recruiter job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
