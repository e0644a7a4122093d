package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"candidate-portal/internal/domain"
	"candidate-portal/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

type waitlistRepo struct {
	db *pgxpool.Pool
}

func NewWaitlistRepository(db *pgxpool.Pool) domain.WaitlistRepository {
	return &waitlistRepo{db: db}
}

func (r *waitlistRepo) Create(ctx context.Context, entry *domain.WaitlistEntry) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO waitlist_entries (id, email, name, role_interest, source, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NOW())
		RETURNING created_at
	`, entry.ID, entry.Email, entry.Name, string(entry.RoleInterest), entry.Source).Scan(&entry.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("This email is already on the waitlist")
		}
		return fmt.Errorf("failed to insert waitlist entry: %w", err)
	}
	return nil
}

func (r *waitlistRepo) MarkSynced(ctx context.Context, id string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE waitlist_entries SET synced_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark waitlist entry synced: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *waitlistRepo) CountBySource(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(source, 'direct'), COUNT(*)
		FROM waitlist_entries
		GROUP BY 1
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count waitlist entries: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var source string
		var n int64
		if err := rows.Scan(&source, &n); err != nil {
			return nil, fmt.Errorf("failed to scan waitlist count: %w", err)
		}
		counts[source] = n
	}
	return counts, rows.Err()
}

func (r *waitlistRepo) List(ctx context.Context, limit int) ([]domain.WaitlistEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, email, COALESCE(name, ''), COALESCE(role_interest, ''), COALESCE(source, ''), synced_at, created_at
		FROM waitlist_entries
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.WaitlistEntry
	for rows.Next() {
		var e domain.WaitlistEntry
		var role string
		if err := rows.Scan(&e.ID, &e.Email, &e.Name, &role, &e.Source, &e.SyncedAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan waitlist entry: %w", err)
		}
		e.RoleInterest = domain.Role(role)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
