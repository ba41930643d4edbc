package postgres

import (
	"context"
	"fmt"
	"time"

	"mecahub-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type contactRepo struct {
	db *pgxpool.Pool
}

// NewContactRepository creates a new contact request repository
func NewContactRepository(db *pgxpool.Pool) domain.ContactRepository {
	return &contactRepo{db: db}
}

// Create inserts a contact request
func (r *contactRepo) Create(ctx context.Context, rec *domain.ContactRecord) error {
	query := `
		INSERT INTO contact_requests (company, name, email, phone, request_type, details, urgency, file_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	rec.CreatedAt = time.Now().UTC()

	err := r.db.QueryRow(ctx, query,
		rec.Company,
		rec.Name,
		rec.Email,
		rec.Phone,
		rec.RequestType,
		rec.Details,
		rec.Urgency,
		rec.FileURL,
		rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to insert contact request: %w", err)
	}
	return nil
}

// ListSince returns contact requests created at or after since, newest first
func (r *contactRepo) ListSince(ctx context.Context, since time.Time) ([]domain.ContactRecord, error) {
	query := `
		SELECT id, company, name, email, phone, request_type, details, urgency, file_url, created_at
		FROM contact_requests
		WHERE created_at >= $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact requests: %w", err)
	}
	defer rows.Close()

	var records []domain.ContactRecord
	for rows.Next() {
		var rec domain.ContactRecord
		if err := rows.Scan(
			&rec.ID, &rec.Company, &rec.Name, &rec.Email, &rec.Phone,
			&rec.RequestType, &rec.Details, &rec.Urgency, &rec.FileURL, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
