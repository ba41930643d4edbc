package postgres

import (
	"context"
	"fmt"
	"time"

	"mecahub-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type jobApplicationRepo struct {
	db *pgxpool.Pool
}

// NewJobApplicationRepository creates a new job application repository
func NewJobApplicationRepository(db *pgxpool.Pool) domain.JobApplicationRepository {
	return &jobApplicationRepo{db: db}
}

// Create inserts a job application. List fields are stored as text[].
func (r *jobApplicationRepo) Create(ctx context.Context, rec *domain.JobApplicationRecord) error {
	query := `
		INSERT INTO job_applications (
			full_name, email, phone, status, positions, skills, software, experience,
			availability, message, cv_url, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	rec.CreatedAt = time.Now().UTC()

	err := r.db.QueryRow(ctx, query,
		rec.FullName,
		rec.Email,
		rec.Phone,
		rec.Status,
		pq.Array(nonNil(rec.Positions)),
		pq.Array(nonNil(rec.Skills)),
		pq.Array(nonNil(rec.Software)),
		pq.Array(nonNil(rec.Experience)),
		rec.Availability,
		rec.Message,
		rec.CVURL,
		rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to insert job application: %w", err)
	}
	return nil
}

// ListSince returns applications created at or after since, newest first
func (r *jobApplicationRepo) ListSince(ctx context.Context, since time.Time) ([]domain.JobApplicationRecord, error) {
	query := `
		SELECT id, full_name, email, phone, status, positions, skills, software, experience,
			availability, message, cv_url, created_at
		FROM job_applications
		WHERE created_at >= $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list job applications: %w", err)
	}
	defer rows.Close()

	var records []domain.JobApplicationRecord
	for rows.Next() {
		var rec domain.JobApplicationRecord
		if err := rows.Scan(
			&rec.ID, &rec.FullName, &rec.Email, &rec.Phone, &rec.Status,
			pq.Array(&rec.Positions), pq.Array(&rec.Skills), pq.Array(&rec.Software), pq.Array(&rec.Experience),
			&rec.Availability, &rec.Message, &rec.CVURL, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// nonNil keeps NOT NULL array columns from receiving NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
