package diagnosis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles the append-only diagnoses table.
type Repository interface {
	Insert(ctx context.Context, rec *Record) error
	ListByUser(ctx context.Context, uid string, limit, offset int) ([]Record, int, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Insert(ctx context.Context, rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO diagnoses
		 (id, uid, pattern, platform, category, industry, age_group, purpose,
		  score, comment, result, follower_gain, memo, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		rec.ID, rec.UID, string(rec.Pattern), rec.Platform, rec.Category,
		rec.Industry, rec.AgeGroup, rec.Purpose, rec.Score, rec.Comment,
		rec.Result, rec.FollowerGain, rec.Memo, rec.ImageURL)
	if err != nil {
		return fmt.Errorf("inserting diagnosis: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, uid string, limit, offset int) ([]Record, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM diagnoses WHERE uid = $1`, uid).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting diagnoses: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, uid, pattern, platform, category, industry, age_group, purpose,
		        score, comment, result, follower_gain, memo, image_url, created_at
		 FROM diagnoses
		 WHERE uid = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, uid, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing diagnoses: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var pattern string
		if err := rows.Scan(&rec.ID, &rec.UID, &pattern, &rec.Platform, &rec.Category,
			&rec.Industry, &rec.AgeGroup, &rec.Purpose, &rec.Score, &rec.Comment,
			&rec.Result, &rec.FollowerGain, &rec.Memo, &rec.ImageURL, &rec.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning diagnosis: %w", err)
		}
		rec.Pattern = Pattern(pattern)
		records = append(records, rec)
	}
	return records, total, rows.Err()
}
