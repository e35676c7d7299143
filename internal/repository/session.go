package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
)

type SessionRepository struct {
	pool PgxPool
}

func NewSessionRepository(pool PgxPool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Save archives one finished session and its event log in a single
// transaction. A duplicate session ID fails with ErrAlreadyArchived.
func (r *SessionRepository) Save(ctx context.Context, record domain.SessionRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO sessions (id, started_at, stopped_at, detection_count, reference_captured)
		VALUES ($1, $2, $3, $4, $5)
	`,
		record.ID,
		record.StartedAt,
		record.StoppedAt,
		record.DetectionCount,
		record.ReferenceCaptured,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyArchived
		}
		return fmt.Errorf("insert session: %w", err)
	}

	for _, event := range record.Events {
		_, err = tx.Exec(ctx, `
			INSERT INTO proxy_events (id, session_id, kind, detail, occurred_at)
			VALUES ($1, $2, $3, $4, $5)
		`,
			event.ID,
			record.ID,
			event.Kind,
			event.Detail,
			event.At,
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}

	return nil
}

// GetByID loads one archived session record with its event log
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SessionRecord, error) {
	var record domain.SessionRecord

	err := r.pool.QueryRow(ctx, `
		SELECT id, started_at, stopped_at, detection_count, reference_captured
		FROM sessions
		WHERE id = $1
	`, id).Scan(
		&record.ID,
		&record.StartedAt,
		&record.StoppedAt,
		&record.DetectionCount,
		&record.ReferenceCaptured,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, kind, detail, occurred_at
		FROM proxy_events
		WHERE session_id = $1
		ORDER BY occurred_at
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get session events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var event domain.ProxyEvent
		if err := rows.Scan(&event.ID, &event.Kind, &event.Detail, &event.At); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		record.Events = append(record.Events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return &record, nil
}
