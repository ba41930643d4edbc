package postgres

import (
	"context"
	"fmt"
	"time"

	"mecahub-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type fileRepo struct {
	db *pgxpool.Pool
}

// NewFileRepository creates a new upload metadata repository
func NewFileRepository(db *pgxpool.Pool) domain.FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) Create(ctx context.Context, rec *domain.FileRecord) error {
	query := `
		INSERT INTO files (form_type, file_name, file_path, file_url, content_type, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	rec.CreatedAt = time.Now().UTC()

	err := r.db.QueryRow(ctx, query,
		rec.FormType,
		rec.FileName,
		rec.FilePath,
		rec.FileURL,
		rec.ContentType,
		rec.SizeBytes,
		rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to insert file metadata: %w", err)
	}
	return nil
}
