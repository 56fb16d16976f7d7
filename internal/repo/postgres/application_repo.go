package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/travhouse/communitybot/internal/domain/enums"
	"github.com/travhouse/communitybot/internal/domain/model"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyDecided      = errors.New("application already decided")
)

type ApplicationRepo struct {
	pool *pgxpool.Pool
}

func NewApplicationRepo(pool *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{pool: pool}
}

func (r *ApplicationRepo) Create(ctx context.Context, app model.Application) (string, error) {
	if r.pool == nil {
		return "", fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(app.SourceText) == "" {
		return "", fmt.Errorf("application source text is required")
	}

	id := uuid.NewString()
	if _, err := r.pool.Exec(ctx, `
INSERT INTO applications (
	id,
	name,
	nickname,
	age,
	telegram,
	timezone,
	platform,
	source_text,
	missing_fields,
	status,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'PENDING', NOW())
`, id,
		strings.TrimSpace(app.Name),
		strings.TrimSpace(app.Nickname),
		app.Age,
		strings.TrimSpace(app.Telegram),
		strings.TrimSpace(app.Timezone),
		strings.TrimSpace(app.Platform),
		app.SourceText,
		app.Missing,
	); err != nil {
		return "", fmt.Errorf("create application: %w", err)
	}

	return id, nil
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (model.Application, error) {
	if r.pool == nil {
		return model.Application{}, ErrApplicationNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT id, name, nickname, age, telegram, timezone, platform,
       source_text, missing_fields, status, created_at, decided_by, decided_at
FROM applications
WHERE id = $1
`, id)

	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Application{}, ErrApplicationNotFound
		}
		return model.Application{}, fmt.Errorf("get application by id: %w", err)
	}
	return app, nil
}

func (r *ApplicationRepo) ListRecent(ctx context.Context, limit int) ([]model.Application, error) {
	if r.pool == nil {
		return []model.Application{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, name, nickname, age, telegram, timezone, platform,
       source_text, missing_fields, status, created_at, decided_by, decided_at
FROM applications
ORDER BY created_at DESC, id DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent applications: %w", err)
	}
	defer rows.Close()

	apps := make([]model.Application, 0, limit)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application row: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate application rows: %w", err)
	}

	return apps, nil
}

func (r *ApplicationRepo) Counts(ctx context.Context) (model.ApplicationCounts, error) {
	if r.pool == nil {
		return model.ApplicationCounts{}, nil
	}

	var counts model.ApplicationCounts
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status = 'PENDING'),
       COUNT(*) FILTER (WHERE status = 'APPROVED'),
       COUNT(*) FILTER (WHERE status = 'REJECTED')
FROM applications
`).Scan(&counts.Total, &counts.Pending, &counts.Approved, &counts.Rejected)
	if err != nil {
		return model.ApplicationCounts{}, fmt.Errorf("count applications: %w", err)
	}

	return counts, nil
}

// SetDecision transitions an application out of PENDING. The WHERE clause
// doubles as the compare-and-swap: under concurrent decisions exactly one
// caller updates the row, everyone else gets ErrAlreadyDecided.
func (r *ApplicationRepo) SetDecision(ctx context.Context, id string, reviewerTGID int64, decision enums.Decision) error {
	if r.pool == nil {
		return ErrApplicationNotFound
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE applications
SET status = $2,
    decided_by = $3,
    decided_at = NOW()
WHERE id = $1
  AND status = 'PENDING'
`, id, string(decision.Status()), reviewerTGID)
	if err != nil {
		return fmt.Errorf("set application decision: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if probeErr := r.pool.QueryRow(ctx, `
SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1)
`, id).Scan(&exists); probeErr != nil {
			return fmt.Errorf("check application existence: %w", probeErr)
		}
		if !exists {
			return ErrApplicationNotFound
		}
		return ErrAlreadyDecided
	}

	return nil
}

func (r *ApplicationRepo) RecordDelivery(ctx context.Context, delivery model.Delivery) error {
	if r.pool == nil {
		return nil
	}
	if delivery.ReviewerTGID == 0 {
		return fmt.Errorf("invalid reviewer tg id")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO application_deliveries (
	application_id,
	reviewer_tg_id,
	chat_id,
	message_id,
	delivered_at
) VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (application_id, reviewer_tg_id) DO UPDATE SET
	chat_id = EXCLUDED.chat_id,
	message_id = EXCLUDED.message_id,
	delivered_at = NOW()
`, delivery.ApplicationID, delivery.ReviewerTGID, delivery.ChatID, delivery.MessageID); err != nil {
		return fmt.Errorf("record application delivery: %w", err)
	}

	return nil
}

func (r *ApplicationRepo) ListDeliveries(ctx context.Context, applicationID string) ([]model.Delivery, error) {
	if r.pool == nil {
		return []model.Delivery{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT application_id, reviewer_tg_id, chat_id, message_id, delivered_at
FROM application_deliveries
WHERE application_id = $1
ORDER BY reviewer_tg_id ASC
`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list application deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := make([]model.Delivery, 0, 4)
	for rows.Next() {
		var d model.Delivery
		if err := rows.Scan(&d.ApplicationID, &d.ReviewerTGID, &d.ChatID, &d.MessageID, &d.DeliveredAt); err != nil {
			return nil, fmt.Errorf("scan delivery row: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate delivery rows: %w", err)
	}

	return deliveries, nil
}

func scanApplication(row pgx.Row) (model.Application, error) {
	var app model.Application
	var status string
	if err := row.Scan(
		&app.ID,
		&app.Name,
		&app.Nickname,
		&app.Age,
		&app.Telegram,
		&app.Timezone,
		&app.Platform,
		&app.SourceText,
		&app.Missing,
		&status,
		&app.CreatedAt,
		&app.DecidedBy,
		&app.DecidedAt,
	); err != nil {
		return model.Application{}, err
	}

	app.Status = enums.ApplicationStatus(strings.ToUpper(strings.TrimSpace(status)))
	return app, nil
}
