package postgres

import (
	"context"
	"errors"
	"fmt"

	"candidate-portal/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) ListCompletedSections(ctx context.Context, userID string) ([]domain.SectionKey, error) {
	rows, err := r.db.Query(ctx, `
		SELECT section_key
		FROM candidate_profile_sections
		WHERE user_id = $1 AND completed
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed sections: %w", err)
	}
	defer rows.Close()

	var keys []domain.SectionKey
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan section key: %w", err)
		}
		keys = append(keys, domain.SectionKey(key))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating section rows: %w", err)
	}
	return keys, nil
}

func (r *profileRepo) GetSection(ctx context.Context, userID string, key domain.SectionKey) (*domain.SectionRecord, error) {
	rec := domain.SectionRecord{UserID: userID, Key: key}
	var tags []string

	err := r.db.QueryRow(ctx, `
		SELECT payload, tags, completed, updated_at
		FROM candidate_profile_sections
		WHERE user_id = $1 AND section_key = $2
	`, userID, string(key)).Scan(&rec.Payload, pq.Array(&tags), &rec.Completed, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get section %s: %w", key, err)
	}
	rec.Tags = tags
	return &rec, nil
}

func (r *profileRepo) SaveSection(ctx context.Context, rec *domain.SectionRecord) error {
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO candidate_profile_sections (user_id, section_key, payload, tags, completed, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $5, NOW())
		ON CONFLICT (user_id, section_key) DO UPDATE
		SET payload = EXCLUDED.payload,
			tags = EXCLUDED.tags,
			completed = EXCLUDED.completed,
			updated_at = NOW()
		RETURNING updated_at
	`, rec.UserID, string(rec.Key), string(rec.Payload), pq.Array(tags), rec.Completed).Scan(&rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save section %s: %w", rec.Key, err)
	}
	return nil
}
