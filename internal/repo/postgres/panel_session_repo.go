package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPanelSessionNotFound = errors.New("panel session not found")

type PanelSessionRepo struct {
	pool *pgxpool.Pool
}

func NewPanelSessionRepo(pool *pgxpool.Pool) *PanelSessionRepo {
	return &PanelSessionRepo{pool: pool}
}

func (r *PanelSessionRepo) Create(ctx context.Context, sid uuid.UUID, username string, ttl time.Duration) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO panel_sessions (id, username, created_at, last_seen_at, expires_at)
VALUES ($1, $2, NOW(), NOW(), NOW() + ($3 * INTERVAL '1 second'))
`, sid, username, int64(ttl.Seconds())); err != nil {
		return fmt.Errorf("create panel session: %w", err)
	}

	return nil
}

// Touch extends a live session and returns its username. Revoked or
// expired sessions read as not found.
func (r *PanelSessionRepo) Touch(ctx context.Context, sid uuid.UUID, ttl time.Duration) (string, error) {
	if r.pool == nil {
		return "", fmt.Errorf("postgres pool is nil")
	}

	seconds := int64(ttl.Seconds())
	if seconds <= 0 {
		seconds = 1800
	}

	var username string
	err := r.pool.QueryRow(ctx, `
UPDATE panel_sessions
SET last_seen_at = NOW(),
    expires_at = NOW() + ($2 * INTERVAL '1 second')
WHERE id = $1
  AND revoked_at IS NULL
  AND expires_at > NOW()
RETURNING username
`, sid, seconds).Scan(&username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrPanelSessionNotFound
		}
		return "", fmt.Errorf("touch panel session: %w", err)
	}

	return username, nil
}

func (r *PanelSessionRepo) Revoke(ctx context.Context, sid uuid.UUID) error {
	if r.pool == nil {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE panel_sessions
SET revoked_at = NOW()
WHERE id = $1
  AND revoked_at IS NULL
`, sid); err != nil {
		return fmt.Errorf("revoke panel session: %w", err)
	}

	return nil
}
